package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointments/internal/domain"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrInvalidRange, http.StatusBadRequest, "INVALID_RANGE"},
		{domain.ErrSlotReserved, http.StatusConflict, "SLOT_RESERVED"},
		{domain.ErrHoldExpired, http.StatusConflict, "HOLD_EXPIRED"},
		{domain.ErrHoldNotOwned, http.StatusForbidden, "HOLD_NOT_OWNED"},
		{domain.ErrProviderNotFound, http.StatusNotFound, "PROVIDER_NOT_FOUND"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}
