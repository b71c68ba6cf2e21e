package auth

import (
	"context"

	"appointments/internal/domain"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string, providerID *int64) (string, error)
}
