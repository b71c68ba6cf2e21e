package booking

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
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.GET("", middleware.AdminOnly(), h.ListAll)
		bookings.GET("/me", h.ListMine)
		bookings.GET("/providers/me", h.ListOwnProvider)
		bookings.GET("/providers/:providerId", h.ListProvider)
		bookings.DELETE("/:id", h.Cancel)
	}
}

// Create books from a hold or directly.
// POST /bookings
func (h *Handler) Create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req BookingRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON payload.")
		return
	}
	errs := validator.Validate(req)
	if errs == nil {
		errs = req.missingFields()
	}
	if errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	var (
		b   *domain.Booking
		err error
	)
	if req.HoldID > 0 {
		b, err = h.manager.BookFromHold(c.Request.Context(), actor.ID, req.HoldID)
	} else {
		start, perr := time.Parse(time.RFC3339, req.StartDateTime)
		if perr != nil {
			response.FromError(c, domain.ErrInvalidDateTime)
			return
		}
		if err := actor.CheckProviderScope(req.ProviderID); err != nil {
			response.FromError(c, err)
			return
		}
		b, err = h.manager.Book(c.Request.Context(), DirectRequest{
			UserID:     actor.ID,
			ProviderID: req.ProviderID,
			ServiceID:  req.ServiceID,
			Start:      start,
		})
	}
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.respond(c, http.StatusCreated, b)
}

// respond reloads the booking with its relations for the response body.
func (h *Handler) respond(c *gin.Context, status int, b *domain.Booking) {
	full, err := h.manager.Get(c.Request.Context(), b.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, status, toView(full))
}

// ListMine returns the current user's bookings, newest first.
// GET /bookings/me
func (h *Handler) ListMine(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	list, err := h.manager.ListForUser(c.Request.Context(), actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toViews(list))
}

// GET /bookings
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.manager.ListAll(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toViews(list))
}

// GET /bookings/providers/:providerId
func (h *Handler) ListProvider(c *gin.Context) {
	providerID, err := strconv.ParseInt(c.Param("providerId"), 10, 64)
	if err != nil || providerID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid provider ID")
		return
	}
	list, err := h.manager.ListForProvider(c.Request.Context(), middleware.CurrentUser(c), providerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toViews(list))
}

// GET /bookings/providers/me
func (h *Handler) ListOwnProvider(c *gin.Context) {
	list, err := h.manager.ListForOwnProvider(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toViews(list))
}

// Cancel marks a booking cancelled and returns it.
// DELETE /bookings/:id
func (h *Handler) Cancel(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}
	actor := middleware.CurrentUser(c)
	if actor == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	b, err := h.manager.Cancel(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	h.respond(c, http.StatusOK, b)
}
