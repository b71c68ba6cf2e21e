package booking

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

type DirectRequest struct {
	UserID     int64
	ProviderID int64
	ServiceID  int64
	Start      time.Time
}

// Manager turns requests and holds into bookings and cancels them.
//
// Every write path locks the provider row before checking for overlaps and
// inserts in the same transaction, so two writers for one provider never
// both pass the check.
type Manager struct {
	uow       TxRunner
	bookings  BookingRepository
	providers ProviderRepository
	clock     clock.Clock
	grid      domain.SlotGrid
	log       *zap.Logger
}

type Option func(*Manager)

func WithGrid(g domain.SlotGrid) Option {
	return func(m *Manager) { m.grid = g }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = logger.OrNop(l) }
}

func NewManager(uow TxRunner, bookings BookingRepository, providers ProviderRepository, clk clock.Clock, opts ...Option) *Manager {
	m := &Manager{
		uow:       uow,
		bookings:  bookings,
		providers: providers,
		clock:     clk,
		grid:      domain.DefaultGrid(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Book creates a booking without a prior hold. A live hold by anyone,
// including the caller, blocks the slot.
func (m *Manager) Book(ctx context.Context, req DirectRequest) (*domain.Booking, error) {
	now := m.clock.Now()
	start := req.Start.UTC()

	var b *domain.Booking
	err := m.uow.Do(ctx, func(tx *repository.Tx) error {
		service, err := tx.Services.GetByID(ctx, req.ServiceID)
		if err != nil {
			return notFound(err, domain.ErrServiceNotFound)
		}
		if err := m.grid.ValidateStart(service, start, now); err != nil {
			return err
		}
		end := start.Add(service.Duration())

		if err := tx.Providers.Lock(ctx, req.ProviderID); err != nil {
			return notFound(err, domain.ErrProviderNotFound)
		}

		held, err := tx.Holds.FindConflicting(ctx, req.ProviderID, start, end, now)
		if err != nil {
			return err
		}
		if held != nil {
			return domain.ErrSlotHeld
		}

		b, err = m.insert(ctx, tx, req.UserID, req.ProviderID, service.ID, start, end)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("provider_id", b.ProviderID),
		zap.Int64("user_id", b.UserID),
		zap.Time("start", b.StartTime))
	return b, nil
}

// BookFromHold converts the caller's live hold into a booking and deletes
// the hold in the same transaction.
func (m *Manager) BookFromHold(ctx context.Context, userID, holdID int64) (*domain.Booking, error) {
	now := m.clock.Now()

	var b *domain.Booking
	err := m.uow.Do(ctx, func(tx *repository.Tx) error {
		h, err := tx.Holds.GetForUpdate(ctx, holdID)
		if err != nil {
			return notFound(err, domain.ErrHoldNotFound)
		}
		if h.IsExpired(now) {
			return domain.ErrHoldExpired
		}
		if h.UserID != userID {
			return domain.ErrHoldNotOwned
		}

		service, err := tx.Services.GetByID(ctx, h.ServiceID)
		if err != nil {
			return notFound(err, domain.ErrServiceNotFound)
		}
		if service.Duration() <= 0 {
			return domain.ErrNonPositiveDuration
		}
		end := h.StartTime.Add(service.Duration())

		if err := tx.Providers.Lock(ctx, h.ProviderID); err != nil {
			return notFound(err, domain.ErrProviderNotFound)
		}

		b, err = m.insert(ctx, tx, userID, h.ProviderID, service.ID, h.StartTime, end)
		if err != nil {
			return err
		}

		if _, err := tx.Holds.Delete(ctx, h.ID); err != nil {
			return fmt.Errorf("consume hold: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("booking created from hold",
		zap.Int64("booking_id", b.ID),
		zap.Int64("hold_id", holdID),
		zap.Int64("provider_id", b.ProviderID),
		zap.Time("start", b.StartTime))
	return b, nil
}

// insert re-checks active bookings under lock and writes the new one.
func (m *Manager) insert(ctx context.Context, tx *repository.Tx, userID, providerID, serviceID int64, start, end time.Time) (*domain.Booking, error) {
	conflict, err := tx.Bookings.FindConflictingForUpdate(ctx, providerID, start, end)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, domain.ErrSlotBooked
	}

	b := &domain.Booking{
		ProviderID: providerID,
		ServiceID:  serviceID,
		UserID:     userID,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		Status:     domain.BookingActive,
	}
	if err := tx.Bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, domain.ErrSlotBooked
		}
		return nil, fmt.Errorf("persist booking: %w", err)
	}
	return b, nil
}

// Cancel moves an active booking to cancelled. actor must own the booking,
// work for its provider, or be an admin; a nil actor skips the check.
func (m *Manager) Cancel(ctx context.Context, actor *domain.User, bookingID int64) (*domain.Booking, error) {
	now := m.clock.Now().UTC()

	var b *domain.Booking
	err := m.uow.Do(ctx, func(tx *repository.Tx) error {
		var err error
		b, err = tx.Bookings.GetForUpdate(ctx, bookingID)
		if err != nil {
			return notFound(err, domain.ErrBookingNotFound)
		}
		if actor != nil && !canManage(actor, b) {
			return domain.ErrAccessDenied
		}
		if !b.IsActive() {
			return domain.ErrAlreadyCancelled
		}

		ok, err := tx.Bookings.Cancel(ctx, b.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyCancelled
		}
		b.Status = domain.BookingCancelled
		b.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("booking cancelled", zap.Int64("booking_id", b.ID), zap.Int64("provider_id", b.ProviderID))
	return b, nil
}

func canManage(actor *domain.User, b *domain.Booking) bool {
	return actor.IsAdmin() || actor.ID == b.UserID || actor.ManagesProvider(b.ProviderID)
}

func (m *Manager) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := m.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrBookingNotFound)
	}
	return b, nil
}

func (m *Manager) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return m.bookings.List(ctx, repository.BookingFilter{UserID: userID})
}

func (m *Manager) ListAll(ctx context.Context, actor *domain.User) ([]domain.Booking, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, domain.ErrAccessDenied
	}
	return m.bookings.List(ctx, repository.BookingFilter{})
}

// ListForProvider is open to admins and to the provider's own staff.
func (m *Manager) ListForProvider(ctx context.Context, actor *domain.User, providerID int64) ([]domain.Booking, error) {
	if _, err := m.providers.GetByID(ctx, providerID); err != nil {
		return nil, notFound(err, domain.ErrProviderNotFound)
	}
	if actor == nil || !(actor.IsAdmin() || actor.ManagesProvider(providerID)) {
		return nil, domain.ErrAccessDenied
	}
	return m.bookings.List(ctx, repository.BookingFilter{ProviderID: providerID})
}

// ListForOwnProvider lists the bookings of the provider the actor works for.
func (m *Manager) ListForOwnProvider(ctx context.Context, actor *domain.User) ([]domain.Booking, error) {
	if actor == nil || actor.Role != domain.RoleProvider {
		return nil, domain.ErrProviderRoleRequired
	}
	if actor.ProviderID == nil {
		return nil, domain.ErrNoAssignedProvider
	}
	return m.bookings.List(ctx, repository.BookingFilter{ProviderID: *actor.ProviderID})
}

func notFound(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
