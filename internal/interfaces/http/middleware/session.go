package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/logger"
	"github.com/cuadre/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionKey is the gin context key of the resolved *identity.Session
const SessionKey = "session"

// SessionResolver turns verified token claims into a usable session
type SessionResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, email, tokenID string) (*identity.Session, error)
	RequireActive(ctx context.Context, session *identity.Session) error
}

// Session loads the caller's profile after JWT authentication. Role and
// organization are taken from the profile, so an admin change applies on
// the next request. Deactivated accounts and unreadable profiles are
// answered with 401 and a redirect to login.
func Session(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		userID, err := claims.GetUserUUID()
		if err != nil {
			abortSession(c, identity.NewIdentityError(identity.ReasonNotAuthenticated, "Not logged in.", err))
			return
		}

		session, err := resolver.Resolve(ctx, userID, claims.Email, claims.ID)
		if err == nil {
			err = resolver.RequireActive(ctx, session)
		}
		if err != nil {
			abortSession(c, err)
			return
		}

		c.Set(SessionKey, session)
		if orgID := session.OrgID(); orgID != nil {
			ctx, _ = logger.WithOrgID(ctx, logger.FromContext(ctx), orgID.String())
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func abortSession(c *gin.Context, err error) {
	requestID := c.GetString(RequestIDKey)

	var ie *identity.IdentityError
	if !errors.As(err, &ie) {
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "Failed to load session", requestID))
		return
	}

	code := dto.ErrCodeUnauthorized
	if ie.Reason == identity.ReasonDeactivated {
		code = dto.ErrCodeAccountDeactivated
	}
	if ie.RequiresSignOut() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewSignOutResponse(code, ie.Message, requestID))
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, ie.Message, requestID))
}

// GetSession returns the session resolved for this request, nil if none
func GetSession(c *gin.Context) *identity.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*identity.Session); ok {
			return s
		}
	}
	return nil
}

// RequireAdmin rejects callers whose profile is not an admin
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, shared.ErrForbidden.Message, c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}
