package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cuadre/backend/internal/infrastructure/auth"
	"github.com/cuadre/backend/internal/infrastructure/config"
	"github.com/cuadre/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(accessTTL time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  accessTTL,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func bearer(token string) map[string]string {
	return map[string]string{AuthHeaderKey: BearerPrefix + token}
}

func jwtRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   GetJWTUserID(c),
			"email":     c.GetString(JWTEmailKey),
			"log_user":  c.GetString("user_id"),
			"has_claim": GetJWTClaims(c) != nil,
		})
	}
	router.GET("/api/v1/recent", handler)
	router.POST("/api/v1/auth/login", handler)
	router.GET("/swagger/index.html", handler)
	return router
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

type failingBlacklist struct {
	auth.TokenBlacklist
}

func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	userID := uuid.New()
	pair, err := svc.GenerateTokenPair(userID, "maria@example.com")
	require.NoError(t, err)

	w := serve(jwtRouter(DefaultJWTConfig(svc)), http.MethodGet, "/api/v1/recent", bearer(pair.AccessToken))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body["user_id"])
	assert.Equal(t, userID.String(), body["log_user"])
	assert.Equal(t, "maria@example.com", body["email"])
	assert.Equal(t, true, body["has_claim"])
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, err := svc.GenerateTokenPair(uuid.New(), "maria@example.com")
	require.NoError(t, err)
	expired, err := newTestJWTService(-time.Minute).GenerateTokenPair(uuid.New(), "old@example.com")
	require.NoError(t, err)

	tests := []struct {
		name     string
		headers  map[string]string
		wantCode string
	}{
		{"missing header", nil, dto.ErrCodeTokenInvalid},
		{"wrong scheme", map[string]string{AuthHeaderKey: "Basic abc"}, dto.ErrCodeTokenInvalid},
		{"empty token", map[string]string{AuthHeaderKey: BearerPrefix + "  "}, dto.ErrCodeTokenInvalid},
		{"garbage token", bearer("not.a.token"), dto.ErrCodeTokenInvalid},
		{"refresh token as access", bearer(pair.RefreshToken), dto.ErrCodeTokenInvalid},
		{"expired", bearer(expired.AccessToken), dto.ErrCodeTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(jwtRouter(DefaultJWTConfig(svc)), http.MethodGet, "/api/v1/recent", tt.headers)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w.Body.Bytes()))
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := jwtRouter(DefaultJWTConfig(newTestJWTService(time.Minute)))

	assert.Equal(t, http.StatusOK, serve(router, http.MethodPost, "/api/v1/auth/login", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/swagger/index.html", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/recent", nil).Code)
}

func TestJWTAuthMiddleware_Revocation(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, err := svc.GenerateTokenPair(uuid.New(), "maria@example.com")
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	t.Run("revoked jti", func(t *testing.T) {
		bl := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, bl.AddToBlacklist(context.Background(), claims.ID, time.Minute))
		cfg := DefaultJWTConfig(svc)
		cfg.TokenBlacklist = bl

		w := serve(jwtRouter(cfg), http.MethodGet, "/api/v1/recent", bearer(pair.AccessToken))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w.Body.Bytes()))
	})

	t.Run("store failure lets the token through", func(t *testing.T) {
		cfg := DefaultJWTConfig(svc)
		cfg.TokenBlacklist = failingBlacklist{}

		w := serve(jwtRouter(cfg), http.MethodGet, "/api/v1/recent", bearer(pair.AccessToken))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestJWTGetters_Empty(t *testing.T) {
	c, _ := gin.CreateTestContext(nil)

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	assert.Empty(t, c.GetString(JWTEmailKey))
	assert.Nil(t, GetSession(c))
}
