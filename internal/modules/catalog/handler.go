package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"renthaven/internal/pkg/response"
	"renthaven/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/apartments", h.Search)
	rg.GET("/apartments/:id", h.GetByID)
}

func (h *Handler) RegisterLandlordRoutes(rg *gin.RouterGroup) {
	rg.POST("/apartments", h.Create)
	rg.PATCH("/apartments/:id", h.Update)
	rg.DELETE("/apartments/:id", h.Unlist)
}

// Search godoc
// @Summary      Search listed apartments
// @Description  Filters by city, bedrooms, rent range and furnishing with pagination
// @Tags         Catalog
// @Produce      json
// @Param        city query string false "City filter"
// @Param        min_bedrooms query integer false "Minimum bedrooms"
// @Param        min_rent query number false "Minimum monthly rent"
// @Param        max_rent query number false "Maximum monthly rent"
// @Param        furnished query boolean false "Furnished only"
// @Param        page query integer false "Page number"
// @Param        limit query integer false "Page size (max 100)"
// @Success      200 {object} SearchResponse
// @Router       /apartments [get]
func (h *Handler) Search(c *gin.Context) {
	var f repository.ApartmentFilter
	f.City = c.Query("city")

	if v := c.Query("min_bedrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.MinBedrooms = n
		}
	}
	if v := c.Query("min_rent"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinRent = n
		}
	}
	if v := c.Query("max_rent"); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxRent = n
		}
	}
	if v := c.Query("furnished"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Furnished = &b
		}
	}

	f.Limit = 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			f.Limit = n
		}
	}
	page := 1
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	f.Offset = (page - 1) * f.Limit

	apartments, total, err := h.service.Search(c.Request.Context(), f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search apartments")
		return
	}

	totalPages := (int(total) + f.Limit - 1) / f.Limit
	response.Success(c, http.StatusOK, SearchResponse{
		Apartments: apartments,
		Pagination: Pagination{Page: page, Limit: f.Limit, Total: total, TotalPages: totalPages},
	})
}

// GetByID godoc
// @Summary      Apartment by ID
// @Tags         Catalog
// @Produce      json
// @Param        id path integer true "Apartment ID"
// @Success      200 {object} domain.Apartment
// @Failure      404 {object} map[string]any
// @Router       /apartments/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid apartment ID")
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Apartment not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load apartment")
		return
	}
	response.Success(c, http.StatusOK, a)
}

// Create godoc
// @Summary      Create listing
// @Tags         Catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateApartmentRequest true "Listing"
// @Success      201 {object} domain.Apartment
// @Failure      400 {object} map[string]any
// @Router       /apartments [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	a, violations, err := h.service.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create apartment")
		return
	}
	if violations != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing data", violations)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

// Update godoc
// @Summary      Update listing
// @Tags         Catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path integer true "Apartment ID"
// @Param        request body UpdateApartmentRequest true "Fields to update"
// @Success      200 {object} domain.Apartment
// @Failure      403 {object} map[string]any
// @Router       /apartments/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid apartment ID")
		return
	}

	var req UpdateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	a, violations, err := h.service.Update(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		h.writeOwnershipError(c, err)
		return
	}
	if violations != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing data", violations)
		return
	}
	response.Success(c, http.StatusOK, a)
}

// Unlist godoc
// @Summary      Remove listing from search
// @Tags         Catalog
// @Security     BearerAuth
// @Param        id path integer true "Apartment ID"
// @Success      200 {object} map[string]any
// @Router       /apartments/{id} [delete]
func (h *Handler) Unlist(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid apartment ID")
		return
	}

	if err := h.service.Unlist(c.Request.Context(), currentUserID(c), id); err != nil {
		h.writeOwnershipError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"unlisted": true})
}

func (h *Handler) writeOwnershipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Apartment not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this listing")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update apartment")
	}
}

func currentUserID(c *gin.Context) int64 {
	v, _ := c.Get("user_id")
	id, _ := v.(int64)
	return id
}
