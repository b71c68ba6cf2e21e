package booking

import (
	"context"

	"appointments/internal/domain"
	"appointments/internal/repository"
)

// TxRunner runs fn in one database transaction.
type TxRunner interface {
	Do(ctx context.Context, fn func(tx *repository.Tx) error) error
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
}

type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
}
