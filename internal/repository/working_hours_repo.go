package repository

import (
	"context"

	"appointments/internal/domain"

	"gorm.io/gorm"
)

type WorkingHoursRepository struct {
	db *gorm.DB
}

func NewWorkingHoursRepository(db *gorm.DB) *WorkingHoursRepository {
	return &WorkingHoursRepository{db: db}
}

func (r *WorkingHoursRepository) ListByProvider(ctx context.Context, providerID int64) ([]domain.WorkingHours, error) {
	var rows []domain.WorkingHours
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("weekday ASC").Order("start_time ASC").
		Find(&rows).Error
	return rows, translate(err)
}

// WindowsFor returns the provider's weekly schedule. A provider without
// configured hours yields an empty schedule, not an error.
func (r *WorkingHoursRepository) WindowsFor(ctx context.Context, providerID int64) (domain.WeeklySchedule, error) {
	rows, err := r.ListByProvider(ctx, providerID)
	if err != nil {
		return domain.WeeklySchedule{}, err
	}
	return domain.BuildWeeklySchedule(rows)
}

func (r *WorkingHoursRepository) Create(ctx context.Context, wh *domain.WorkingHours) error {
	return translate(r.db.WithContext(ctx).Create(wh).Error)
}
