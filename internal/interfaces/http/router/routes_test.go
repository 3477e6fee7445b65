package router

import (
	"net/http"
	"sort"
	"testing"

	"github.com/cuadre/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandlers() Handlers {
	return Handlers{
		System: handler.NewSystemHandler("Cuadre API", "test", nil, nil, nil),
		Auth:   handler.NewAuthHandler(nil),
		Forms:  handler.NewFormsHandler(nil, nil, nil),
		Sheets: handler.NewSheetsHandler(nil),
		Admin:  handler.NewAdminHandler(nil),
	}
}

func deny(status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatus(status)
	}
}

func TestRegisterAPI_Routes(t *testing.T) {
	engine := gin.New()
	RegisterAPI(NewRouter(engine), testHandlers(), Guards{}).Setup()

	var got []string
	for _, route := range engine.Routes() {
		got = append(got, route.Method+" "+route.Path)
	}
	sort.Strings(got)

	want := []string{
		"GET /api/v1/admin/orgs",
		"GET /api/v1/admin/profiles",
		"GET /api/v1/auth/me",
		"GET /api/v1/forms/recent",
		"GET /api/v1/forms/safe/:id/receipt",
		"GET /api/v1/forms/safe/new",
		"GET /api/v1/health",
		"GET /api/v1/system/info",
		"PATCH /api/v1/admin/profiles/:user_id",
		"POST /api/v1/admin/orgs",
		"POST /api/v1/admin/users",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/logout",
		"POST /api/v1/auth/password-reset",
		"POST /api/v1/auth/password-reset/confirm",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/signup",
		"POST /api/v1/forms/cash-payment",
		"POST /api/v1/forms/daily",
		"POST /api/v1/forms/loteria",
		"POST /api/v1/forms/safe",
		"POST /api/v1/forms/safe/change",
		"POST /api/v1/forms/safe/clear",
		"POST /api/v1/forms/transfer",
	}
	assert.Equal(t, want, got)
}

func TestRegisterAPI_Guards(t *testing.T) {
	engine := gin.New()
	RegisterAPI(NewRouter(engine), testHandlers(), Guards{
		Throttle: []gin.HandlerFunc{deny(http.StatusTooManyRequests)},
		Admin:    []gin.HandlerFunc{deny(http.StatusForbidden)},
	}).Setup()

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"login is throttled", http.MethodPost, "/api/v1/auth/login", http.StatusTooManyRequests},
		{"reset confirm is throttled", http.MethodPost, "/api/v1/auth/password-reset/confirm", http.StatusTooManyRequests},
		{"whoami is not throttled", http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{"admin is guarded", http.MethodGet, "/api/v1/admin/profiles", http.StatusForbidden},
		{"admin patch is guarded", http.MethodPatch, "/api/v1/admin/profiles/abc", http.StatusForbidden},
		{"forms need a session", http.MethodGet, "/api/v1/forms/recent", http.StatusUnauthorized},
		{"health is open", http.MethodGet, "/api/v1/health", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
