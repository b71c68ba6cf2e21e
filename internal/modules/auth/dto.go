package auth

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserView struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	ProviderID *int64 `json:"providerId,omitempty"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}
