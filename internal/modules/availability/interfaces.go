package availability

import (
	"context"
	"time"

	"appointments/internal/domain"
)

type WorkingHoursStore interface {
	WindowsFor(ctx context.Context, providerID int64) (domain.WeeklySchedule, error)
}

type BookingIntervals interface {
	ActiveIntervals(ctx context.Context, providerID int64, from, to time.Time) ([]domain.Interval, error)
}

type HoldIntervals interface {
	LiveIntervals(ctx context.Context, providerID int64, from, to, now time.Time) ([]domain.Interval, error)
}

// ExpiryReaper is the opportunistic expired-hold purge.
type ExpiryReaper interface {
	MaybePurge(ctx context.Context, now time.Time)
}

type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}
