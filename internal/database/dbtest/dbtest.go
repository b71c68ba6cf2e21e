// Package dbtest provides migrated in-memory SQLite databases and fixtures for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"appointments/internal/database"
	"appointments/internal/domain"
)

// New opens a fresh database named after the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:appointments_%s?mode=memory&cache=shared", name)

	db, err := database.OpenSQLite(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, database.Migrate(db), "migrate")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Window is a working-hours row for fixtures, e.g. {0, "09:00", "10:00"} for Monday.
type Window struct {
	Weekday int
	Start   string
	End     string
}

func Provider(t testing.TB, db *gorm.DB, name string, windows ...Window) *domain.Provider {
	t.Helper()

	p := &domain.Provider{Name: name}
	for _, w := range windows {
		p.WorkingHours = append(p.WorkingHours, domain.WorkingHours{Weekday: w.Weekday, StartTime: w.Start, EndTime: w.End})
	}
	require.NoError(t, db.WithContext(context.Background()).Create(p).Error)
	return p
}

func Service(t testing.TB, db *gorm.DB, minutes int) *domain.Service {
	t.Helper()

	s := &domain.Service{Name: fmt.Sprintf("Service %dm", minutes), DurationMinutes: minutes}
	require.NoError(t, db.Create(s).Error)
	return s
}

func User(t testing.TB, db *gorm.DB, email string, role domain.UserRole, providerID *int64) *domain.User {
	t.Helper()

	u := &domain.User{Email: email, PasswordHash: "x", Role: role, Name: email, ProviderID: providerID}
	require.NoError(t, db.Create(u).Error)
	return u
}
