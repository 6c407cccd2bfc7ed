package payment

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"renthaven/internal/pkg/response"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments/status", h.Status)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/mpesa/callback", h.Callback)
}

// Status godoc
// @Summary      Payment status by checkout id
// @Description  Returns the local status the client polls while waiting for the push result
// @Tags         Payments
// @Security     BearerAuth
// @Produce      json
// @Param        checkout_id query string true "Gateway checkout identifier"
// @Success      200 {object} StatusResponse
// @Failure      404 {object} map[string]any
// @Router       /payments/status [get]
func (h *Handler) Status(c *gin.Context) {
	checkoutID := strings.TrimSpace(c.Query("checkout_id"))
	if checkoutID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "checkout_id is required")
		return
	}

	status, err := h.service.Status(c.Request.Context(), checkoutID)
	if err != nil {
		if errors.Is(err, ErrUnknownCheckout) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unknown checkout id")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load payment status")
		return
	}

	response.Success(c, http.StatusOK, StatusResponse{Status: string(status)})
}

// Callback godoc
// @Summary      M-Pesa result callback
// @Description  Applies the gateway's asynchronous push result (idempotent)
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Success      200 {object} map[string]any
// @Failure      400 {object} map[string]any
// @Router       /payments/mpesa/callback [post]
func (h *Handler) Callback(c *gin.Context) {
	rawBody, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(rawBody)))
	h.loggerf("level=info msg=mpesa callback received raw_body=%s", string(rawBody))

	var cb STKCallback
	if err := c.ShouldBindJSON(&cb); err != nil {
		h.loggerf("level=error msg=invalid mpesa callback payload err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"ResultCode": 1, "ResultDesc": "Invalid payload"})
		return
	}

	if err := h.service.HandleCallback(c.Request.Context(), cb, string(rawBody)); err != nil {
		if errors.Is(err, ErrUnknownCheckout) {
			h.loggerf("level=error msg=mpesa callback for unknown checkout checkout_id=%s", cb.Body.StkCallback.CheckoutRequestID)
			c.JSON(http.StatusNotFound, gin.H{"ResultCode": 1, "ResultDesc": "Unknown checkout"})
			return
		}
		h.loggerf("level=error msg=mpesa callback handling failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ResultCode": 1, "ResultDesc": "Internal error"})
		return
	}

	// the gateway expects this ack shape
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}
