package repository

import (
	"context"

	"gorm.io/gorm"
)

// Tx exposes the repositories bound to one database transaction.
type Tx struct {
	Providers *ProviderRepository
	Services  *ServiceRepository
	Bookings  *BookingRepository
	Holds     *SlotHoldRepository
}

func newTx(db *gorm.DB) *Tx {
	return &Tx{
		Providers: NewProviderRepository(db),
		Services:  NewServiceRepository(db),
		Bookings:  NewBookingRepository(db),
		Holds:     NewSlotHoldRepository(db),
	}
}

type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do runs fn inside a transaction. It commits when fn returns nil and rolls
// back otherwise; fn's error is returned unchanged.
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx *Tx) error) error {
	return u.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(newTx(gtx))
	})
}
