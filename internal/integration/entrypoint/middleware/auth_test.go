package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/finance-tracker/budget-api/internal/domain/error"
	"github.com/finance-tracker/budget-api/internal/integration/adapters"
	"github.com/finance-tracker/budget-api/internal/integration/entrypoint/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(mw *AuthMiddleware) *gin.Engine {
	engine := gin.New()
	engine.GET("/private", mw.Authenticate(), func(c *gin.Context) {
		id, _ := GetUserIDFromContext(c)
		email, _ := GetUserEmailFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "email": email})
	})
	return engine
}

func TestAuthenticate(t *testing.T) {
	tokens := adapters.NewTokenService("secret")
	userID := uuid.New()
	valid, err := tokens.GenerateToken(context.Background(), userID, "a@b.com")
	require.NoError(t, err)

	past := adapters.NewTokenService("secret", adapters.WithClock(func() time.Time {
		return time.Now().Add(-30 * 24 * time.Hour)
	}))
	expired, err := past.GenerateToken(context.Background(), userID, "a@b.com")
	require.NoError(t, err)

	engine := newAuthEngine(NewAuthMiddleware(tokens))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   domainerror.AuthErrorCode
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, domainerror.ErrCodeMissingToken},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, domainerror.ErrCodeInvalidToken},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, domainerror.ErrCodeInvalidToken},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized, domainerror.ErrCodeInvalidToken},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, domainerror.ErrCodeExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode == "" {
				var body map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, userID.String(), body["id"])
				assert.Equal(t, "a@b.com", body["email"])
				return
			}
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, string(tt.wantCode), body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}
