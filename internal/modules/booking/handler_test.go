package booking

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

	"appointments/internal/domain"
	"appointments/internal/middleware"
	jwtsvc "appointments/internal/pkg/jwt"
)

func setupRouter(t *testing.T) (*env, *gin.Engine, *jwtsvc.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := setup(t)
	j := jwtsvc.New("test", time.Hour)
	r := gin.New()
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(j))
	NewHandler(e.manager).RegisterRoutes(protected)
	return e, r, j
}

func tokenFor(t *testing.T, j *jwtsvc.Service, u *domain.User) string {
	t.Helper()
	token, err := j.GenerateToken(u.ID, string(u.Role), u.ProviderID)
	require.NoError(t, err)
	return token
}

func do(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
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
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestBookingHandler_DirectThenCancel(t *testing.T) {
	e, r, j := setupRouter(t)
	alice := tokenFor(t, j, e.alice)

	w := do(r, http.MethodPost, "/api/v1/bookings", alice, gin.H{
		"providerId":    e.provider.ID,
		"serviceId":     e.service.ID,
		"startDateTime": slotStart.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view BookingView
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &view))
	assert.Equal(t, "active", view.Status)
	assert.True(t, view.StartDateTime.Equal(slotStart))
	require.NotNil(t, view.Provider)
	assert.Equal(t, "P1", view.Provider.Name)
	require.NotNil(t, view.User)
	assert.Equal(t, "alice@example.com", view.User.Email)
	assert.Nil(t, view.CancelledAt)

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", view.ID), alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &view))
	assert.Equal(t, "cancelled", view.Status)
	assert.NotNil(t, view.CancelledAt)

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", view.ID), alice, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ALREADY_CANCELLED", decode(t, w).Error.Code)
}

func TestBookingHandler_FromHold(t *testing.T) {
	e, r, j := setupRouter(t)
	h := e.hold(t, e.alice, slotStart, time.Minute)

	w := do(r, http.MethodPost, "/api/v1/bookings", tokenFor(t, j, e.bob), gin.H{"holdId": h.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "HOLD_NOT_OWNED", decode(t, w).Error.Code)

	w = do(r, http.MethodPost, "/api/v1/bookings", tokenFor(t, j, e.alice), gin.H{"holdId": h.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestBookingHandler_Rejections(t *testing.T) {
	e, r, j := setupRouter(t)
	alice := tokenFor(t, j, e.alice)

	tests := []struct {
		name   string
		token  string
		body   any
		status int
		code   string
	}{
		{"no token", "", gin.H{"holdId": 1}, http.StatusUnauthorized, "AUTH_HEADER_MISSING"},
		{"empty body", alice, gin.H{}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"bad datetime", alice, gin.H{"providerId": e.provider.ID, "serviceId": e.service.ID, "startDateTime": "tomorrow"}, http.StatusBadRequest, "INVALID_DATETIME"},
		{"misaligned", alice, gin.H{"providerId": e.provider.ID, "serviceId": e.service.ID, "startDateTime": slotStart.Add(5 * time.Minute).Format(time.RFC3339)}, http.StatusBadRequest, "START_MISALIGNED"},
		{"unknown hold", alice, gin.H{"holdId": 4242}, http.StatusNotFound, "HOLD_NOT_FOUND"},
		{"foreign provider", tokenFor(t, j, e.staff), gin.H{"providerId": e.provider.ID + 1, "serviceId": e.service.ID, "startDateTime": slotStart.Format(time.RFC3339)}, http.StatusForbidden, "FOREIGN_PROVIDER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/v1/bookings", tt.token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode(t, w).Error.Code)
		})
	}
}

func TestBookingHandler_Listings(t *testing.T) {
	e, r, j := setupRouter(t)
	_, err := e.manager.Book(context.Background(), e.direct(e.alice, slotStart))
	require.NoError(t, err)

	count := func(w *httptest.ResponseRecorder) int {
		var list []BookingView
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &list))
		return len(list)
	}

	w := do(r, http.MethodGet, "/api/v1/bookings/me", tokenFor(t, j, e.alice), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, count(w))

	w = do(r, http.MethodGet, "/api/v1/bookings/me", tokenFor(t, j, e.bob), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, count(w))

	w = do(r, http.MethodGet, "/api/v1/bookings", tokenFor(t, j, e.alice), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/api/v1/bookings", tokenFor(t, j, e.admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, count(w))

	w = do(r, http.MethodGet, "/api/v1/bookings/providers/me", tokenFor(t, j, e.staff), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, count(w))

	w = do(r, http.MethodGet, "/api/v1/bookings/providers/me", tokenFor(t, j, e.alice), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "PROVIDER_ROLE_REQUIRED", decode(t, w).Error.Code)

	w = do(r, http.MethodGet, fmt.Sprintf("/api/v1/bookings/providers/%d", e.provider.ID), tokenFor(t, j, e.staff), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, count(w))

	w = do(r, http.MethodGet, "/api/v1/bookings/providers/abc", tokenFor(t, j, e.admin), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
