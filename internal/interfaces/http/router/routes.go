package router

import (
	"github.com/cuadre/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the endpoints served under the API base path
type Handlers struct {
	System *handler.SystemHandler
	Auth   *handler.AuthHandler
	Forms  *handler.FormsHandler
	Sheets *handler.SheetsHandler
	Admin  *handler.AdminHandler
}

// Guards hold the middleware that only some groups run. Throttle guards the
// unauthenticated auth routes and Admin the admin console.
type Guards struct {
	Throttle []gin.HandlerFunc
	Admin    []gin.HandlerFunc
}

// SystemRoutes serves health and build information
func SystemRoutes(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "").
		GET("/health", h.Health).
		GET("/system/info", h.GetSystemInfo)
}

// AuthRoutes serves sign in, sign up and password reset without a token,
// and logout and whoami with one.
func AuthRoutes(h *handler.AuthHandler, throttle ...gin.HandlerFunc) *DomainGroup {
	auth := NewDomainGroup("auth", "/auth").
		POST("/logout", h.Logout).
		GET("/me", h.Me)

	auth.Group("auth-public", "").
		Use(throttle...).
		POST("/login", h.Login).
		POST("/signup", h.Signup).
		POST("/refresh", h.RefreshToken).
		POST("/password-reset", h.RequestPasswordReset).
		POST("/password-reset/confirm", h.ConfirmPasswordReset)

	return auth
}

// FormsRoutes serves the Safe form, the other cash forms and the recent
// entries list.
func FormsRoutes(forms *handler.FormsHandler, sheets *handler.SheetsHandler) *DomainGroup {
	group := NewDomainGroup("forms", "/forms").
		GET("/recent", forms.Recent).
		POST("/loteria", sheets.SubmitLoteria).
		POST("/cash-payment", sheets.SubmitCashPayment).
		POST("/transfer", sheets.SubmitTransfer).
		POST("/daily", sheets.SubmitDaily)

	group.Group("safe", "/safe").
		GET("/new", forms.NewSafe).
		POST("/change", forms.ChangeSafe).
		POST("/clear", forms.ClearSafe).
		POST("", forms.SubmitSafe).
		GET("/:id/receipt", forms.SafeReceipt)

	return group
}

// AdminRoutes serves org and profile management
func AdminRoutes(h *handler.AdminHandler, guard ...gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("admin", "/admin").
		Use(guard...).
		GET("/orgs", h.ListOrgs).
		POST("/orgs", h.CreateOrg).
		POST("/users", h.CreateUser).
		GET("/profiles", h.ListProfiles).
		PATCH("/profiles/:user_id", h.UpdateProfile)
}

// RegisterAPI queues every group of the API on r
func RegisterAPI(r *Router, h Handlers, g Guards) *Router {
	return r.Register(
		SystemRoutes(h.System),
		AuthRoutes(h.Auth, g.Throttle...),
		FormsRoutes(h.Forms, h.Sheets),
		AdminRoutes(h.Admin, g.Admin...),
	)
}
