package hold

import (
	"context"
	"time"

	"appointments/internal/domain"
	"appointments/internal/repository"
)

// TxRunner runs fn in one database transaction.
type TxRunner interface {
	Do(ctx context.Context, fn func(tx *repository.Tx) error) error
}

type HoldRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.SlotHold, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type ExpiryReaper interface {
	MaybePurge(ctx context.Context, now time.Time)
}
