package auth

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"appointments/internal/domain"
	"appointments/internal/pkg/logger"
	"appointments/internal/repository"
)

// Service resolves credentials into signed identity tokens. It does not
// register users; accounts come from the seed or an operator.
type Service struct {
	users UserRepository
	jwt   TokenIssuer
	log   *zap.Logger
}

func NewService(users UserRepository, jwt TokenIssuer, log *zap.Logger) *Service {
	return &Service{users: users, jwt: jwt, log: logger.OrNop(log)}
}

// Login checks the password and issues a token carrying the user's role and
// linked provider.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Info("login rejected", zap.Int64("user_id", user.ID))
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role), user.ProviderID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// HashPassword is the only way passwords are stored.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
