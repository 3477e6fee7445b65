package identity

import (
	"context"
	"errors"
	"time"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Messages shown when a session has to be dropped
const (
	MsgNotLoggedIn         = "Not logged in."
	MsgAccountDeactivated  = "Your account is deactivated. Contact an admin."
	MsgProfileUnavailable  = "Your profile could not be loaded. Please sign in again."
	defaultRevocationTTL   = 7 * 24 * time.Hour
	revocationWriteTimeout = 5 * time.Second
)

// SessionGate turns a verified token into a Session and decides whether the
// session may be used. Role and organization always come from the stored
// profile, never from the token.
type SessionGate struct {
	profiles  identity.ProfileRepository
	blacklist auth.TokenBlacklist
	revokeTTL time.Duration
	logger    *zap.Logger
}

// NewSessionGate creates a new SessionGate. revokeTTL should cover the
// refresh token lifetime so a signed-out user cannot refresh back in.
func NewSessionGate(profiles identity.ProfileRepository, blacklist auth.TokenBlacklist, revokeTTL time.Duration, logger *zap.Logger) *SessionGate {
	if revokeTTL <= 0 {
		revokeTTL = defaultRevocationTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionGate{profiles: profiles, blacklist: blacklist, revokeTTL: revokeTTL, logger: logger}
}

// Resolve loads the profile of userID. An unreadable profile signs the user
// out everywhere.
func (g *SessionGate) Resolve(ctx context.Context, userID uuid.UUID, email, tokenID string) (*identity.Session, error) {
	if userID == uuid.Nil {
		return nil, identity.NewIdentityError(identity.ReasonNotAuthenticated, MsgNotLoggedIn, nil)
	}
	profile, err := g.profiles.FindByUserID(ctx, userID)
	if err != nil {
		g.logger.Warn("profile unavailable, signing out",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		g.signOut(ctx, userID)
		return nil, identity.NewIdentityError(identity.ReasonProfileUnavailable, MsgProfileUnavailable, err)
	}
	if email == "" {
		email = profile.Email
	}
	return &identity.Session{UserID: userID, Email: email, Profile: profile, TokenID: tokenID}, nil
}

// RequireActive rejects anonymous and deactivated sessions. A deactivated
// user's tokens are revoked.
func (g *SessionGate) RequireActive(ctx context.Context, session *identity.Session) error {
	if !session.IsAuthenticated() {
		return identity.NewIdentityError(identity.ReasonNotAuthenticated, MsgNotLoggedIn, nil)
	}
	if session.Profile == nil {
		g.signOut(ctx, session.UserID)
		return identity.NewIdentityError(identity.ReasonProfileUnavailable, MsgProfileUnavailable, nil)
	}
	if !session.Profile.IsActive {
		g.logger.Info("deactivated account rejected", zap.String("user_id", session.UserID.String()))
		g.signOut(ctx, session.UserID)
		return identity.NewIdentityError(identity.ReasonDeactivated, MsgAccountDeactivated, nil)
	}
	return nil
}

// RequireAdmin rejects sessions whose profile is not an admin
func (g *SessionGate) RequireAdmin(session *identity.Session) error {
	if !session.IsAdmin() {
		return shared.ErrForbidden
	}
	return nil
}

// signOut revokes every token issued to userID so far
func (g *SessionGate) signOut(ctx context.Context, userID uuid.UUID) {
	if g.blacklist == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), revocationWriteTimeout)
	defer cancel()
	if err := g.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), g.revokeTTL); err != nil {
		g.logger.Error("failed to revoke user tokens", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// IsSignOut reports whether err requires the client to drop its session
func IsSignOut(err error) bool {
	var ie *identity.IdentityError
	return errors.As(err, &ie) && ie.RequiresSignOut()
}
