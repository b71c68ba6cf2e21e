package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"appointments/internal/config"
	"appointments/internal/database/dbtest"
	"appointments/internal/domain"
	"appointments/internal/modules/auth"
	"appointments/internal/modules/reaper"
	"appointments/internal/repository"
)

type E2ETestSuite struct {
	router   *gin.Engine
	provider *domain.Provider
	service  *domain.Service
	day      time.Time
}

type TestResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type slotsData struct {
	ProviderID int64         `json:"providerId"`
	Slots      []domain.Slot `json:"slots"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.New(t)

	var everyDay []dbtest.Window
	for wd := 0; wd < 7; wd++ {
		everyDay = append(everyDay, dbtest.Window{Weekday: wd, Start: "08:00", End: "10:00"})
	}

	s := &E2ETestSuite{
		provider: dbtest.Provider(t, db, "Clinic", everyDay...),
		service:  dbtest.Service(t, db, 30),
		day:      time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, 1),
	}

	users := repository.NewUserRepository(db)
	for _, u := range []struct {
		email string
		role  domain.UserRole
	}{
		{"client@test.com", domain.RoleClient},
		{"other@test.com", domain.RoleClient},
	} {
		hash, err := auth.HashPassword("password123")
		require.NoError(t, err)
		require.NoError(t, users.Create(context.Background(), &domain.User{Email: u.email, PasswordHash: hash, Role: u.role}))
	}

	cfg := &config.Config{
		AppEnv:          "test",
		JWTSecret:       "test_secret_key_32_characters_min",
		JWTTTL:          time.Hour,
		Location:        time.UTC,
		SlotGranularity: 30 * time.Minute,
		HoldTTL:         time.Minute,
	}
	s.router = newRouter(cfg, db, reaper.NewMemoryGate(0), zap.NewNop())
	return s
}

func (s *E2ETestSuite) makeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return &resp
}

func (s *E2ETestSuite) login(t *testing.T, email string) string {
	t.Helper()
	w := s.makeRequest(http.MethodPost, "/api/v1/auth/login", gin.H{"email": email, "password": "password123"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(parseResponse(t, w).Data, &data))
	return data.Token
}

func (s *E2ETestSuite) slots(t *testing.T) []domain.Slot {
	t.Helper()
	date := s.day.Format("2006-01-02")
	path := fmt.Sprintf("/api/v1/providers/%d/slots?serviceId=%d&from=%s&to=%s", s.provider.ID, s.service.ID, date, date)
	w := s.makeRequest(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data slotsData
	require.NoError(t, json.Unmarshal(parseResponse(t, w).Data, &data))
	assert.Equal(t, s.provider.ID, data.ProviderID)
	return data.Slots
}

func TestE2E_HoldBookCancelFlow(t *testing.T) {
	s := setupTestSuite(t)
	client := s.login(t, "client@test.com")
	other := s.login(t, "other@test.com")

	slots := s.slots(t)
	require.Len(t, slots, 4)
	for _, sl := range slots {
		assert.True(t, sl.Available)
	}
	first := slots[0].Start
	assert.True(t, first.Equal(s.day.Add(8*time.Hour)))

	w := s.makeRequest(http.MethodPost, "/api/v1/bookings/holds", gin.H{
		"providerId":    s.provider.ID,
		"serviceId":     s.service.ID,
		"startDateTime": first.Format(time.RFC3339),
	}, client)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var held struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(parseResponse(t, w).Data, &held))

	assert.False(t, s.slots(t)[0].Available, "held slot is busy")

	w = s.makeRequest(http.MethodPost, "/api/v1/bookings", gin.H{
		"providerId":    s.provider.ID,
		"serviceId":     s.service.ID,
		"startDateTime": first.Format(time.RFC3339),
	}, other)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "SLOT_HELD", parseResponse(t, w).Error.Code)

	w = s.makeRequest(http.MethodPost, "/api/v1/bookings", gin.H{"holdId": held.ID}, client)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booked struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(parseResponse(t, w).Data, &booked))
	assert.Equal(t, "active", booked.Status)

	assert.False(t, s.slots(t)[0].Available, "booked slot is busy")

	w = s.makeRequest(http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", booked.ID), nil, other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.makeRequest(http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", booked.ID), nil, client)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.True(t, s.slots(t)[0].Available, "cancelled booking frees the slot")
}

func TestE2E_PublicAndProtectedRoutes(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(http.MethodGet, "/api/v1/providers", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(http.MethodGet, "/api/v1/bookings/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.makeRequest(http.MethodPost, "/api/v1/bookings/holds", gin.H{}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
