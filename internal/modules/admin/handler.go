package admin

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

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
	rg.POST("/users/:id/deactivate", h.Deactivate)
	rg.POST("/users/:id/activate", h.Activate)
	rg.POST("/staff", h.CreateStaff)
}

func (h *Handler) RegisterTenantRoutes(rg *gin.RouterGroup) {
	rg.POST("/family-members", h.AddFamilyMember)
	rg.GET("/family-members", h.ListFamilyMembers)
	rg.PUT("/family-members/:id", h.UpdateFamilyMember)
	rg.DELETE("/family-members/:id", h.RemoveFamilyMember)
}

// ListUsers godoc
// @Summary      List users, optionally by role
// @Tags         Admin
// @Security     BearerAuth
// @Produce      json
// @Param        role query string false "tenant, landlord, staff or admin"
// @Success      200 {object} map[string]any
// @Router       /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	offset := 0
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), domain.Role(c.Query("role")), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users, "total": total})
}

func (h *Handler) Deactivate(c *gin.Context) { h.setActive(c, false) }
func (h *Handler) Activate(c *gin.Context)   { h.setActive(c, true) }

func (h *Handler) setActive(c *gin.Context, active bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	if err := h.service.SetUserActive(c.Request.Context(), id, active); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"active": active})
}

// CreateStaff godoc
// @Summary      Provision a staff account
// @Tags         Admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateStaffRequest true "Staff account"
// @Success      201 {object} domain.User
// @Failure      409 {object} map[string]any
// @Router       /admin/staff [post]
func (h *Handler) CreateStaff(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	u, violations, err := h.service.CreateStaff(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create staff account")
		return
	}
	if violations != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid staff data", violations)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *Handler) AddFamilyMember(c *gin.Context) {
	var req FamilyMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	fm, violations, err := h.service.AddFamilyMember(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add family member")
		return
	}
	if violations != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid family member data", violations)
		return
	}
	response.Success(c, http.StatusCreated, fm)
}

func (h *Handler) ListFamilyMembers(c *gin.Context) {
	rows, err := h.service.ListFamilyMembers(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list family members")
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) UpdateFamilyMember(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid member ID")
		return
	}

	var req FamilyMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	fm, violations, err := h.service.UpdateFamilyMember(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		h.writeMemberError(c, err)
		return
	}
	if violations != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid family member data", violations)
		return
	}
	response.Success(c, http.StatusOK, fm)
}

func (h *Handler) RemoveFamilyMember(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid member ID")
		return
	}

	if err := h.service.RemoveFamilyMember(c.Request.Context(), currentUserID(c), id); err != nil {
		h.writeMemberError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMemberNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Family member not found")
	case errors.Is(err, ErrMemberForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not your family member")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update family member")
	}
}

func currentUserID(c *gin.Context) int64 {
	v, _ := c.Get("user_id")
	id, _ := v.(int64)
	return id
}
