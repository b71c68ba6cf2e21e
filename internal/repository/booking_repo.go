package repository

import (
	"context"
	"time"

	"appointments/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error)
}

// GetByID loads a booking with its provider, service and user.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Provider").
		Preload("Service").
		Preload("User").
		First(&b, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// GetForUpdate loads a booking under a row lock.
func (r *BookingRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// FindConflicting returns the first active booking of the provider that
// overlaps [start, end), or nil when the window is free.
func (r *BookingRepository) FindConflicting(ctx context.Context, providerID int64, start, end time.Time) (*domain.Booking, error) {
	return r.findConflicting(r.activeOverlapping(ctx, providerID, start, end))
}

// FindConflictingForUpdate is FindConflicting with the matching rows locked.
func (r *BookingRepository) FindConflictingForUpdate(ctx context.Context, providerID int64, start, end time.Time) (*domain.Booking, error) {
	return r.findConflicting(r.activeOverlapping(ctx, providerID, start, end).
		Clauses(clause.Locking{Strength: "UPDATE"}))
}

func (r *BookingRepository) findConflicting(q *gorm.DB) (*domain.Booking, error) {
	var rows []domain.Booking
	err := q.
		Order("start_time ASC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ActiveIntervals returns the intervals of active bookings intersecting [from, to).
func (r *BookingRepository) ActiveIntervals(ctx context.Context, providerID int64, from, to time.Time) ([]domain.Interval, error) {
	var rows []intervalRow
	err := r.activeOverlapping(ctx, providerID, from, to).
		Model(&domain.Booking{}).
		Select("start_time, end_time").
		Order("start_time ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return toIntervals(rows), nil
}

type intervalRow struct {
	StartTime time.Time
	EndTime   time.Time
}

func toIntervals(rows []intervalRow) []domain.Interval {
	out := make([]domain.Interval, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Interval{Start: row.StartTime, End: row.EndTime})
	}
	return out
}

func (r *BookingRepository) activeOverlapping(ctx context.Context, providerID int64, start, end time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("status = ?", domain.BookingActive).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC())
}

// Cancel moves an active booking to cancelled. It reports false when the
// booking was not active, leaving cancelled_at untouched.
func (r *BookingRepository) Cancel(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, domain.BookingActive).
		Updates(map[string]any{
			"status":       domain.BookingCancelled,
			"cancelled_at": at.UTC(),
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

type BookingFilter struct {
	UserID     int64
	ProviderID int64
}

// List returns bookings matching f, most recent start first, with their
// provider, service and user preloaded.
func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).
		Preload("Provider").
		Preload("Service").
		Preload("User")

	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ProviderID > 0 {
		q = q.Where("provider_id = ?", f.ProviderID)
	}

	var bookings []domain.Booking
	err := q.Order("start_time DESC").Order("id DESC").Find(&bookings).Error
	return bookings, translate(err)
}
