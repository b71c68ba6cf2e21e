package repository

import (
	"context"

	"appointments/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

// List returns providers ordered by name.
func (r *ProviderRepository) List(ctx context.Context) ([]domain.Provider, error) {
	var providers []domain.Provider
	err := r.db.WithContext(ctx).
		Order("name ASC").Order("id ASC").
		Find(&providers).Error
	return providers, translate(err)
}

// GetByID loads a provider together with its working hours.
func (r *ProviderRepository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	var p domain.Provider
	err := r.db.WithContext(ctx).
		Preload("WorkingHours", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC").Order("start_time ASC")
		}).
		First(&p, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Lock takes a row lock on the provider. Booking writes for one provider
// serialize on it, which also covers the case where no booking row exists yet.
func (r *ProviderRepository) Lock(ctx context.Context, id int64) error {
	var p domain.Provider
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&p, id).Error
	return translate(err)
}

func (r *ProviderRepository) Create(ctx context.Context, p *domain.Provider) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}
