package hold

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

func TestHoldHandler_CreateAndRelease(t *testing.T) {
	e, r, j := setupRouter(t)
	token, _ := j.GenerateToken(e.alice.ID, string(domain.RoleClient), nil)

	w := do(r, http.MethodPost, "/api/v1/bookings/holds", token, gin.H{
		"providerId":    e.provider.ID,
		"serviceId":     e.service.ID,
		"startDateTime": slotStart.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data HoldCreatedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.Data.ID)
	assert.True(t, created.Data.ExpiresAt.Equal(e.clock.Now().Add(DefaultTTL)))

	w = do(r, http.MethodPost, "/api/v1/bookings/holds", token, gin.H{
		"providerId":    e.provider.ID,
		"serviceId":     e.service.ID,
		"startDateTime": slotStart.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Slot already reserved.")

	path := fmt.Sprintf("/api/v1/bookings/holds/%d", created.Data.ID)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, path, token, nil).Code)
}

func TestHoldHandler_Rejections(t *testing.T) {
	e, r, j := setupRouter(t)
	client, _ := j.GenerateToken(e.alice.ID, string(domain.RoleClient), nil)
	other := e.provider.ID + 100
	staff, _ := j.GenerateToken(e.bob.ID, string(domain.RoleProvider), &other)

	w := do(r, http.MethodPost, "/api/v1/bookings/holds", client, gin.H{"providerId": e.provider.ID})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(r, http.MethodPost, "/api/v1/bookings/holds", client, gin.H{
		"providerId": e.provider.ID, "serviceId": e.service.ID, "startDateTime": "tomorrow at nine",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_DATETIME")

	w = do(r, http.MethodPost, "/api/v1/bookings/holds", staff, gin.H{
		"providerId": e.provider.ID, "serviceId": e.service.ID, "startDateTime": slotStart.Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPost, "/api/v1/bookings/holds", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHoldHandler_ReleaseForeignHoldForbidden(t *testing.T) {
	e, r, j := setupRouter(t)
	bob, _ := j.GenerateToken(e.bob.ID, string(domain.RoleClient), nil)

	h, err := e.manager.CreateHold(context.Background(), e.request(e.alice, slotStart))
	require.NoError(t, err)

	w := do(r, http.MethodDelete, fmt.Sprintf("/api/v1/bookings/holds/%d", h.ID), bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
