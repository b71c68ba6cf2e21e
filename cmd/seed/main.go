package main

import (
	"context"
	"log"

	"appointments/internal/config"
	"appointments/internal/database"
	"appointments/internal/domain"
	"appointments/internal/modules/auth"
	applog "appointments/internal/pkg/logger"
	"appointments/internal/repository"
)

type window struct {
	start, end string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := applog.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	ctx := context.Background()

	log.Println("Cleaning old data...")
	for _, table := range []string{"slot_holds", "bookings", "users", "provider_working_hours", "services", "providers"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	log.Println("Creating providers...")
	providers := repository.NewProviderRepository(db)
	hours := repository.NewWorkingHoursRepository(db)

	fullDay := []window{{"09:00", "17:00"}}
	splitDay := []window{{"09:00", "12:00"}, {"13:00", "17:00"}}

	clinic := mustProvider(ctx, providers, hours, "Dr. Martin", func(int) []window { return fullDay })
	salon := mustProvider(ctx, providers, hours, "Studio Bloom", func(weekday int) []window {
		if weekday == 2 {
			return splitDay
		}
		return fullDay
	})

	log.Println("Creating services...")
	services := repository.NewServiceRepository(db)
	for _, s := range []domain.Service{
		{Name: "Consultation", DurationMinutes: 30},
		{Name: "Extended session", DurationMinutes: 60},
	} {
		if err := services.Create(ctx, &s); err != nil {
			log.Fatalf("create service %s: %v", s.Name, err)
		}
		log.Printf("Service created: %s (%d min)", s.Name, s.DurationMinutes)
	}

	log.Println("Creating users...")
	users := repository.NewUserRepository(db)
	mustUser(ctx, users, "admin@example.com", "admin123", "Administrator", domain.RoleAdmin, nil)
	mustUser(ctx, users, "client@example.com", "client123", "Client", domain.RoleClient, nil)
	mustUser(ctx, users, "provider@example.com", "provider123", "Clinic staff", domain.RoleProvider, &clinic.ID)
	mustUser(ctx, users, "salon@example.com", "provider123", "Salon staff", domain.RoleProvider, &salon.ID)

	log.Println("Seed completed")
}

// mustProvider creates a provider with Monday to Friday working hours.
func mustProvider(ctx context.Context, providers *repository.ProviderRepository, hours *repository.WorkingHoursRepository, name string, day func(weekday int) []window) *domain.Provider {
	p := &domain.Provider{Name: name}
	if err := providers.Create(ctx, p); err != nil {
		log.Fatalf("create provider %s: %v", name, err)
	}
	for weekday := 0; weekday < 5; weekday++ {
		for _, w := range day(weekday) {
			wh := &domain.WorkingHours{ProviderID: p.ID, Weekday: weekday, StartTime: w.start, EndTime: w.end}
			if err := hours.Create(ctx, wh); err != nil {
				log.Fatalf("create hours for %s: %v", name, err)
			}
		}
	}
	log.Printf("Provider created: %s (id=%d)", name, p.ID)
	return p
}

func mustUser(ctx context.Context, users *repository.UserRepository, email, password, name string, role domain.UserRole, providerID *int64) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	u := &domain.User{Email: email, PasswordHash: hash, Name: name, Role: role, ProviderID: providerID}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("create user %s: %v", email, err)
	}
	log.Printf("User created: %s / %s (%s)", email, password, role)
}
