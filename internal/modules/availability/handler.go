package availability

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

// RegisterRoutes mounts the slot query on a group that resolves identity
// optionally; anonymous callers may browse slots.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/providers/:id/slots", h.GetSlots)
}

type slotsQueryDTO struct {
	ServiceID int64  `form:"serviceId" validate:"required,gt=0"`
	From      string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" validate:"omitempty,datetime=2006-01-02"`
}

// GetSlots returns candidate slots for a provider and service.
// GET /providers/:id/slots?serviceId=&from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) GetSlots(c *gin.Context) {
	providerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || providerID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid provider ID")
		return
	}

	var q slotsQueryDTO
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	if errs := validator.Validate(q); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", errs)
		return
	}

	result, err := h.service.ProviderSlots(c.Request.Context(), middleware.CurrentUser(c), SlotsQuery{
		ProviderID: providerID,
		ServiceID:  q.ServiceID,
		From:       q.From,
		To:         q.To,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
