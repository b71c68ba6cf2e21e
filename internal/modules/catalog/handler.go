package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"appointments/internal/middleware"
	"appointments/internal/pkg/response"
	"appointments/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/providers", h.ListProviders)
	rg.GET("/providers/:id", h.GetProvider)
	rg.GET("/services", h.ListServices)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/providers/me", h.GetOwnProvider)
}

// RegisterAdminRoutes expects an authenticated group and adds the admin guard.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	services := rg.Group("/services", middleware.AdminOnly())
	{
		services.POST("", h.CreateService)
		services.PATCH("/:id", h.UpdateService)
		services.DELETE("/:id", h.DeleteService)
	}
}

// GET /providers
func (h *Handler) ListProviders(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]ProviderView, 0, len(providers))
	for i := range providers {
		out = append(out, toProviderView(&providers[i], false))
	}
	response.Success(c, http.StatusOK, out)
}

// GetProvider returns one provider and its working hours.
// GET /providers/:id
func (h *Handler) GetProvider(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid provider ID")
		return
	}
	p, err := h.service.GetProvider(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProviderView(p, true))
}

// GET /providers/me
func (h *Handler) GetOwnProvider(c *gin.Context) {
	p, err := h.service.OwnProvider(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProviderView(p, true))
}

// GET /services
func (h *Handler) ListServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toServiceViews(services))
}

// POST /services
func (h *Handler) CreateService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON payload.")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	svc, err := h.service.CreateService(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toServiceView(svc))
}

// PATCH /services/:id
func (h *Handler) UpdateService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON payload.")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	svc, err := h.service.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toServiceView(svc))
}

// DELETE /services/:id
func (h *Handler) DeleteService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return
	}

	if err := h.service.DeleteService(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
