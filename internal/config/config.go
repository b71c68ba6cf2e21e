package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
	defaultSlotGranularity = "30m"
	defaultHoldTTL         = "60s"
	defaultReaperCooldown  = "5s"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// Location calendar dates in slot queries are interpreted in.
	Location *time.Location

	SlotGranularity time.Duration
	HoldTTL         time.Duration
	ReaperCooldown  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSAllowedOrigins []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DATABASE_URL", "appointments.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_TTL", defaultJWTTTL)
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("SLOT_GRANULARITY", defaultSlotGranularity)
	v.SetDefault("HOLD_TTL", defaultHoldTTL)
	v.SetDefault("REAPER_COOLDOWN", defaultReaperCooldown)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	return v
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:        strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		Port:          strings.TrimSpace(v.GetString("APP_PORT")),
		DatabaseURL:   strings.TrimSpace(v.GetString("DATABASE_URL")),
		JWTSecret:     strings.TrimSpace(v.GetString("JWT_SECRET")),
		RedisAddr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
	}

	var err error
	if cfg.JWTTTL, err = parseDuration(v, "JWT_TTL"); err != nil {
		return nil, err
	}
	if cfg.SlotGranularity, err = parseDuration(v, "SLOT_GRANULARITY"); err != nil {
		return nil, err
	}
	if cfg.HoldTTL, err = parseDuration(v, "HOLD_TTL"); err != nil {
		return nil, err
	}
	if cfg.ReaperCooldown, err = parseDuration(v, "REAPER_COOLDOWN"); err != nil {
		return nil, err
	}

	tz := strings.TrimSpace(v.GetString("APP_TIMEZONE"))
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE value %q: %w", tz, err)
	}

	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("APP_PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.SlotGranularity < time.Minute || cfg.SlotGranularity%time.Minute != 0 {
		return fmt.Errorf("SLOT_GRANULARITY must be a whole number of minutes")
	}
	if time.Hour%cfg.SlotGranularity != 0 {
		return fmt.Errorf("SLOT_GRANULARITY must divide one hour")
	}
	if cfg.HoldTTL <= 0 {
		return fmt.Errorf("HOLD_TTL must be > 0")
	}
	if cfg.ReaperCooldown < 0 {
		return fmt.Errorf("REAPER_COOLDOWN must be >= 0")
	}

	if IsProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDuration(v *viper.Viper, name string) (time.Duration, error) {
	value := strings.TrimSpace(v.GetString(name))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}
