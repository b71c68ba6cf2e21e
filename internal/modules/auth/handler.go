package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"appointments/internal/domain"
	"appointments/internal/middleware"
	"appointments/internal/pkg/response"
	"appointments/internal/pkg/validator"
	"appointments/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON payload.")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
			return
		}
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{Token: token, User: toUserView(user)})
}

// GET /auth/me
func (h *Handler) GetMe(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	if actor == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	user, err := h.service.GetCurrentUser(c.Request.Context(), actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(user))
}

func toUserView(u *domain.User) UserView {
	return UserView{ID: u.ID, Email: u.Email, Name: u.Name, Role: string(u.Role), ProviderID: u.ProviderID}
}
