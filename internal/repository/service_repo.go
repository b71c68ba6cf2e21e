package repository

import (
	"context"

	"appointments/internal/domain"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) List(ctx context.Context) ([]domain.Service, error) {
	var services []domain.Service
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&services).Error
	return services, translate(err)
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

// Update writes the name and duration. Existing bookings keep the end time
// they were created with.
func (r *ServiceRepository) Update(ctx context.Context, s *domain.Service) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Service{ID: s.ID}).
		Select("name", "duration_minutes", "updated_at").
		Updates(s)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a service that no booking references, together with any
// holds on it. Bookings, cancelled ones included, keep the service alive.
func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Booking{}).Where("service_id = ?", id).Count(&n).Error; err != nil {
			return translate(err)
		}
		if n > 0 {
			return ErrInUse
		}
		if err := tx.Where("service_id = ?", id).Delete(&domain.SlotHold{}).Error; err != nil {
			return translate(err)
		}
		res := tx.Delete(&domain.Service{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
