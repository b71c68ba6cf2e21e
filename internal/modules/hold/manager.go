package hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"appointments/internal/domain"
	"appointments/internal/pkg/clock"
	"appointments/internal/pkg/logger"
	"appointments/internal/repository"
)

const DefaultTTL = 60 * time.Second

type CreateHoldRequest struct {
	UserID     int64
	ProviderID int64
	ServiceID  int64
	Start      time.Time
}

// Manager creates and releases slot holds.
type Manager struct {
	uow       TxRunner
	holds     HoldRepository
	providers ProviderRepository
	services  ServiceRepository
	clock     clock.Clock
	reaper    ExpiryReaper
	ttl       time.Duration
	grid      domain.SlotGrid
	log       *zap.Logger
}

type Option func(*Manager)

func WithHoldTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

func WithGrid(g domain.SlotGrid) Option {
	return func(m *Manager) { m.grid = g }
}

func WithReaper(r ExpiryReaper) Option {
	return func(m *Manager) { m.reaper = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = logger.OrNop(l) }
}

func NewManager(uow TxRunner, holds HoldRepository, providers ProviderRepository, services ServiceRepository, clk clock.Clock, opts ...Option) *Manager {
	m := &Manager{
		uow:       uow,
		holds:     holds,
		providers: providers,
		services:  services,
		clock:     clk,
		ttl:       DefaultTTL,
		grid:      domain.DefaultGrid(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateHold reserves [start, start+duration) for the user until now+TTL.
//
// The overlap checks only produce the precise reason. Two creators racing for
// the same (provider, start) are decided by the unique index, and the loser
// gets the same "already reserved" failure.
func (m *Manager) CreateHold(ctx context.Context, req CreateHoldRequest) (*domain.SlotHold, error) {
	now := m.clock.Now()
	if m.reaper != nil {
		m.reaper.MaybePurge(ctx, now)
	}

	provider, err := m.providers.GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, notFound(err, domain.ErrProviderNotFound)
	}
	service, err := m.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, notFound(err, domain.ErrServiceNotFound)
	}

	start := req.Start.UTC()
	if err := m.grid.ValidateStart(service, start, now); err != nil {
		return nil, err
	}
	end := start.Add(service.Duration())

	h := &domain.SlotHold{
		ProviderID: provider.ID,
		ServiceID:  service.ID,
		UserID:     req.UserID,
		StartTime:  start,
		EndTime:    end,
		ExpiresAt:  now.Add(m.ttl).UTC(),
	}

	err = m.uow.Do(ctx, func(tx *repository.Tx) error {
		held, err := tx.Holds.FindConflicting(ctx, provider.ID, start, end, now)
		if err != nil {
			return err
		}
		if held != nil {
			return domain.ErrSlotReserved
		}

		booked, err := tx.Bookings.FindConflicting(ctx, provider.ID, start, end)
		if err != nil {
			return err
		}
		if booked != nil {
			return domain.ErrSlotTaken
		}

		if err := tx.Holds.Create(ctx, h, now); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return domain.ErrSlotReserved
			}
			return fmt.Errorf("persist hold: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("slot hold created",
		zap.Int64("hold_id", h.ID),
		zap.Int64("provider_id", h.ProviderID),
		zap.Int64("user_id", h.UserID),
		zap.Time("start", h.StartTime),
		zap.Time("expires_at", h.ExpiresAt))
	return h, nil
}

// ReleaseHold deletes the hold. A hold that is already gone is not an error.
func (m *Manager) ReleaseHold(ctx context.Context, holdID int64) error {
	n, err := m.holds.Delete(ctx, holdID)
	if err != nil {
		return fmt.Errorf("release hold: %w", err)
	}
	if n > 0 {
		m.log.Info("slot hold released", zap.Int64("hold_id", holdID))
	}
	return nil
}

// ReleaseAs releases on behalf of actor, who must own the hold or be an admin.
func (m *Manager) ReleaseAs(ctx context.Context, actor *domain.User, holdID int64) error {
	h, err := m.holds.GetByID(ctx, holdID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if actor == nil || (h.UserID != actor.ID && !actor.IsAdmin()) {
		return domain.ErrAccessDenied
	}
	return m.ReleaseHold(ctx, holdID)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
