package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointments/internal/database/dbtest"
	"appointments/internal/domain"
)

func TestServiceRepository_Update(t *testing.T) {
	db := dbtest.New(t)
	s := dbtest.Service(t, db, 30)
	repo := NewServiceRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, &domain.Service{ID: s.ID, Name: "Long", DurationMinutes: 90}))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Long", got.Name)
	assert.Equal(t, 90, got.DurationMinutes)

	err = repo.Update(ctx, &domain.Service{ID: 9999, Name: "x", DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceRepository_DeleteTakesHoldsButNotBookings(t *testing.T) {
	db := dbtest.New(t)
	p := dbtest.Provider(t, db, "P")
	held := dbtest.Service(t, db, 30)
	booked := dbtest.Service(t, db, 60)
	u := dbtest.User(t, db, "a@example.com", domain.RoleClient, nil)
	repo := NewServiceRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.SlotHold{
		ProviderID: p.ID, ServiceID: held.ID, UserID: u.ID,
		StartTime: base, EndTime: base.Add(30 * time.Minute), ExpiresAt: base,
	}).Error)
	require.NoError(t, db.Create(&domain.Booking{
		ProviderID: p.ID, ServiceID: booked.ID, UserID: u.ID,
		StartTime: base, EndTime: base.Add(time.Hour), Status: domain.BookingCancelled,
	}).Error)

	require.NoError(t, repo.Delete(ctx, held.ID))
	var holds int64
	require.NoError(t, db.Model(&domain.SlotHold{}).Count(&holds).Error)
	assert.Zero(t, holds)
	_, err := repo.GetByID(ctx, held.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, booked.ID), ErrInUse)
	_, err = repo.GetByID(ctx, booked.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, repo.Delete(ctx, held.ID), ErrNotFound)
}
