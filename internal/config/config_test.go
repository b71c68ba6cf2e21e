package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := newViper()
	v.Set("APP_ENV", "dev")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.SlotGranularity)
	assert.Equal(t, 60*time.Second, cfg.HoldTTL)
	assert.Equal(t, 5*time.Second, cfg.ReaperCooldown)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "UTC", cfg.Location.String())
}

func TestFromViper_Overrides(t *testing.T) {
	v := newViper()
	v.Set("HOLD_TTL", "2m")
	v.Set("SLOT_GRANULARITY", "15m")
	v.Set("REAPER_COOLDOWN", "0s")
	v.Set("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.HoldTTL)
	assert.Equal(t, 15*time.Minute, cfg.SlotGranularity)
	assert.Equal(t, time.Duration(0), cfg.ReaperCooldown)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromViper_Rejects(t *testing.T) {
	cases := map[string][2]string{
		"granularity not dividing hour": {"SLOT_GRANULARITY", "25m"},
		"sub-minute granularity":        {"SLOT_GRANULARITY", "30s"},
		"zero hold ttl":                 {"HOLD_TTL", "0s"},
		"negative cooldown":             {"REAPER_COOLDOWN", "-1s"},
		"bad duration":                  {"HOLD_TTL", "soon"},
		"bad timezone":                  {"APP_TIMEZONE", "Mars/Olympus"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			v := newViper()
			v.Set("APP_ENV", "dev")
			v.Set(kv[0], kv[1])
			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestFromViper_ProdRequiresSecret(t *testing.T) {
	v := newViper()
	v.Set("APP_ENV", "production")
	v.Set("JWT_SECRET", defaultJWTSecret)

	_, err := FromViper(v)
	assert.Error(t, err)

	v.Set("JWT_SECRET", "a-real-secret")
	_, err = FromViper(v)
	assert.NoError(t, err)
}
