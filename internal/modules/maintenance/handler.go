package maintenance

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"renthaven/internal/domain"
	"renthaven/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterTenantRoutes(rg *gin.RouterGroup) {
	rg.POST("/maintenance", h.Create)
	rg.GET("/maintenance", h.ListMine)
	rg.GET("/maintenance/:id", h.GetByID)
}

func (h *Handler) RegisterStaffRoutes(rg *gin.RouterGroup) {
	rg.GET("/maintenance/assigned", h.ListAssigned)
	rg.PATCH("/maintenance/:id/status", h.UpdateStatus)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/maintenance", h.ListByStatus)
	rg.POST("/maintenance/:id/assign", h.Assign)
}

// Create godoc
// @Summary      Request cleaning or repair
// @Tags         Maintenance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateRequestDTO true "Request"
// @Success      201 {object} domain.MaintenanceRequest
// @Router       /maintenance [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	m, violations, err := h.service.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create request")
		return
	}
	if violations != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", violations)
		return
	}
	response.Success(c, http.StatusCreated, m)
}

// ListMine godoc
// @Summary      My maintenance requests
// @Tags         Maintenance
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} domain.MaintenanceRequest
// @Router       /maintenance [get]
func (h *Handler) ListMine(c *gin.Context) {
	limit, offset := pageParams(c)
	rows, err := h.service.ListForTenant(c.Request.Context(), currentUserID(c), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load requests")
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	m, err := h.service.GetForTenant(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// ListAssigned godoc
// @Summary      Jobs assigned to the calling staff member
// @Tags         Maintenance
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} domain.MaintenanceRequest
// @Router       /staff/maintenance/assigned [get]
func (h *Handler) ListAssigned(c *gin.Context) {
	limit, offset := pageParams(c)
	rows, err := h.service.ListForStaff(c.Request.Context(), currentUserID(c), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load assigned jobs")
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// ListByStatus godoc
// @Summary      All maintenance requests, optionally by status
// @Tags         Maintenance
// @Security     BearerAuth
// @Produce      json
// @Param        status query string false "Filter by status"
// @Success      200 {array} domain.MaintenanceRequest
// @Router       /admin/maintenance [get]
func (h *Handler) ListByStatus(c *gin.Context) {
	limit, offset := pageParams(c)
	rows, err := h.service.ListByStatus(c.Request.Context(), domain.MaintenanceStatus(c.Query("status")), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load requests")
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// Assign godoc
// @Summary      Assign a request to a staff member
// @Tags         Maintenance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path integer true "Request ID"
// @Param        request body AssignRequestDTO true "Assignment"
// @Success      200 {object} domain.MaintenanceRequest
// @Router       /admin/maintenance/{id}/assign [post]
func (h *Handler) Assign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	var req AssignRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	m, violations, err := h.service.Assign(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if violations != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid assignment", violations)
		return
	}
	response.Success(c, http.StatusOK, m)
}

// UpdateStatus godoc
// @Summary      Advance a request through its lifecycle
// @Tags         Maintenance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path integer true "Request ID"
// @Param        request body UpdateStatusDTO true "Target status"
// @Success      200 {object} domain.MaintenanceRequest
// @Failure      422 {object} map[string]any
// @Router       /staff/maintenance/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	var req UpdateStatusDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	m, violations, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if violations != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status", violations)
		return
	}
	response.Success(c, http.StatusOK, m)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Maintenance request not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your maintenance request")
	case errors.Is(err, ErrNotStaffMember):
		response.Error(c, http.StatusUnprocessableEntity, "NOT_STAFF", "Assignee must be a staff member")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_TRANSITION", "Status change is not allowed from the current state")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process maintenance request")
	}
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit = 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	return limit, offset
}

func currentUserID(c *gin.Context) int64 {
	v, _ := c.Get("user_id")
	id, _ := v.(int64)
	return id
}
