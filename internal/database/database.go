package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"appointments/internal/domain"
)

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Connect opens PostgreSQL for postgres:// DSNs and SQLite for anything else.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	if IsPostgres(dsn) {
		log.Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info("using SQLite for local development", zap.String("dsn", dsn))
	return OpenSQLite(dsn, cfg)
}

// OpenSQLite opens a pure-Go SQLite database limited to one connection.
// SQLite ignores SELECT ... FOR UPDATE, so a single connection is what keeps
// check-then-write transactions from interleaving.
func OpenSQLite(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Provider{},
		&domain.WorkingHours{},
		&domain.Service{},
		&domain.User{},
		&domain.Booking{},
		&domain.SlotHold{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		return migratePostgres(db)
	}
	return nil
}

// migratePostgres adds the overlap exclusion on active bookings. The booking
// manager already serializes per provider; this backs it up at the storage level.
func migratePostgres(db *gorm.DB) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'idx_no_overbooking') THEN
		ALTER TABLE bookings ADD CONSTRAINT idx_no_overbooking
			EXCLUDE USING gist (provider_id WITH =, tstzrange(start_time, end_time, '[)') WITH &&)
			WHERE (status = 'active');
	END IF;
END $$`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return fmt.Errorf("postgres migration: %w", err)
		}
	}
	return nil
}
