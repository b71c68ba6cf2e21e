package repository

import (
	"context"
	"time"

	"appointments/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SlotHoldRepository struct {
	db *gorm.DB
}

func NewSlotHoldRepository(db *gorm.DB) *SlotHoldRepository {
	return &SlotHoldRepository{db: db}
}

// Create persists a hold. An expired hold still occupying the same
// (provider, start) key is removed first so it cannot trip the unique index.
// A live hold on that key makes Create fail with ErrDuplicateKey.
func (r *SlotHoldRepository) Create(ctx context.Context, h *domain.SlotHold, now time.Time) error {
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND start_time = ? AND expires_at <= ?", h.ProviderID, h.StartTime.UTC(), now.UTC()).
		Delete(&domain.SlotHold{}).Error
	if err != nil {
		return translate(err)
	}
	return translate(r.db.WithContext(ctx).Create(h).Error)
}

func (r *SlotHoldRepository) GetByID(ctx context.Context, id int64) (*domain.SlotHold, error) {
	var h domain.SlotHold
	if err := r.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return nil, translate(err)
	}
	return &h, nil
}

// GetForUpdate loads a hold under a row lock so only one request can consume it.
func (r *SlotHoldRepository) GetForUpdate(ctx context.Context, id int64) (*domain.SlotHold, error) {
	var h domain.SlotHold
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&h, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &h, nil
}

// FindConflicting returns a hold of the provider that is live at now and
// overlaps [start, end), or nil.
func (r *SlotHoldRepository) FindConflicting(ctx context.Context, providerID int64, start, end, now time.Time) (*domain.SlotHold, error) {
	var rows []domain.SlotHold
	err := r.liveOverlapping(ctx, providerID, start, end, now).
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

// LiveIntervals returns the intervals of holds live at now intersecting [from, to).
func (r *SlotHoldRepository) LiveIntervals(ctx context.Context, providerID int64, from, to, now time.Time) ([]domain.Interval, error) {
	var rows []intervalRow
	err := r.liveOverlapping(ctx, providerID, from, to, now).
		Model(&domain.SlotHold{}).
		Select("start_time, end_time").
		Order("start_time ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return toIntervals(rows), nil
}

func (r *SlotHoldRepository) liveOverlapping(ctx context.Context, providerID int64, start, end, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Where("expires_at > ?", now.UTC()).
		Where("start_time < ? AND end_time > ?", end.UTC(), start.UTC())
}

// Delete removes a hold and reports how many rows went away. Deleting a hold
// that no longer exists is not an error.
func (r *SlotHoldRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.SlotHold{}, id)
	return res.RowsAffected, translate(res.Error)
}

// PurgeExpired deletes every hold with expires_at <= ref.
func (r *SlotHoldRepository) PurgeExpired(ctx context.Context, ref time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", ref.UTC()).
		Delete(&domain.SlotHold{})
	return res.RowsAffected, translate(res.Error)
}
