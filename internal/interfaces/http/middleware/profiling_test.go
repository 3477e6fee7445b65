package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type ctxProbe struct{}

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
	assert.Contains(t, cfg.SkipPathPrefixes, "/swagger")
}

func TestProfilingWithConfig_RunsHandler(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProfilingConfig
		path string
	}{
		{"disabled", ProfilingConfig{}, "/api/v1/forms/safe"},
		{"enabled", DefaultProfilingConfig(), "/api/v1/forms/safe"},
		{"skipped path", DefaultProfilingConfig(), "/health"},
		{"skipped prefix", DefaultProfilingConfig(), "/swagger/index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			router := gin.New()
			router.Use(ProfilingWithConfig(tt.cfg))
			router.GET(tt.path, func(c *gin.Context) {
				called = true
				c.Status(http.StatusOK)
			})

			w := serve(router, http.MethodGet, tt.path, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, called)
		})
	}
}

func TestProfilingWithConfig_KeepsContextValues(t *testing.T) {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxProbe{}, "kept"))
		c.Next()
	}, Profiling())
	router.GET("/api/v1/recent", func(c *gin.Context) {
		c.String(http.StatusOK, "%v", c.Request.Context().Value(ctxProbe{}))
	})

	w := serve(router, http.MethodGet, "/api/v1/recent", nil)
	assert.Equal(t, "kept", w.Body.String())
}

func TestProfilingLabels(t *testing.T) {
	var got map[string]string
	router := gin.New()
	router.POST("/api/v1/forms/safe/submit", func(c *gin.Context) {
		c.Set(SessionKey, &identity.Session{
			UserID:  uuid.New(),
			Profile: &identity.Profile{Role: identity.RoleAdmin, IsActive: true},
		})
		got = profilingLabels(c)
		c.Status(http.StatusOK)
	})

	serve(router, http.MethodPost, "/api/v1/forms/safe/submit", nil)

	assert.Equal(t, map[string]string{
		telemetry.ProfilingLabelRoute:    "/api/v1/forms/safe/submit",
		telemetry.ProfilingLabelMethod:   http.MethodPost,
		telemetry.ProfilingLabelRole:     "admin",
		telemetry.ProfilingLabelFormType: "safe",
	}, got)
}

func TestFormTypeFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/forms/safe":         "safe",
		"/api/v1/forms/safe/receipt": "safe",
		"/api/v1/forms/:type":        "",
		"/api/v1/recent/:id":         "",
		"":                           "",
	}
	for route, want := range tests {
		assert.Equal(t, want, formTypeFromRoute(route), route)
	}
}
