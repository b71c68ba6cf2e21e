package hold

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"appointments/internal/domain"
	"appointments/internal/middleware"
	"appointments/internal/pkg/response"
	"appointments/internal/pkg/validator"
)

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes expects an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings/holds", h.Create)
	rg.DELETE("/bookings/holds/:id", h.Release)
}

// Create reserves a slot for the current user.
// POST /bookings/holds
func (h *Handler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateHoldDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON payload.")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartDateTime)
	if err != nil {
		response.FromError(c, domain.ErrInvalidDateTime)
		return
	}
	if err := actor.CheckProviderScope(req.ProviderID); err != nil {
		response.FromError(c, err)
		return
	}

	held, err := h.manager.CreateHold(c.Request.Context(), CreateHoldRequest{
		UserID:     actor.ID,
		ProviderID: req.ProviderID,
		ServiceID:  req.ServiceID,
		Start:      start,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, HoldCreatedResponse{ID: held.ID, ExpiresAt: held.ExpiresAt})
}

// Release deletes a hold. Missing holds still answer 204.
// DELETE /bookings/holds/:id
func (h *Handler) Release(c *gin.Context) {
	holdID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || holdID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid hold ID")
		return
	}

	if err := h.manager.ReleaseAs(c.Request.Context(), middleware.CurrentUser(c), holdID); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
