package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSessionGate_Resolve(t *testing.T) {
	t.Run("role and org come from the profile", func(t *testing.T) {
		ctx := context.Background()
		profiles := new(MockProfileRepository)
		gate := NewSessionGate(profiles, auth.NewInMemoryTokenBlacklist(), time.Hour, nil)

		orgID := uuid.New()
		userID := uuid.New()
		profile := &identity.Profile{UserID: userID, Email: "maria@example.com", Role: identity.RoleAdmin, OrgID: &orgID, IsActive: true}
		profiles.On("FindByUserID", ctx, userID).Return(profile, nil)

		session, err := gate.Resolve(ctx, userID, "", "jti-1")

		require.NoError(t, err)
		assert.Equal(t, "maria@example.com", session.Email)
		assert.Equal(t, "jti-1", session.TokenID)
		assert.True(t, session.IsAdmin())
		assert.Equal(t, &orgID, session.OrgID())
		assert.NoError(t, gate.RequireActive(ctx, session))
		assert.NoError(t, gate.RequireAdmin(session))
	})

	t.Run("nil user", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		gate := NewSessionGate(profiles, nil, 0, nil)

		_, err := gate.Resolve(context.Background(), uuid.Nil, "", "")

		var ie *identity.IdentityError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, identity.ReasonNotAuthenticated, ie.Reason)
		assert.False(t, IsSignOut(err))
		profiles.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
	})

	t.Run("profile read failure signs out", func(t *testing.T) {
		ctx := context.Background()
		core, logs := observer.New(zap.WarnLevel)
		profiles := new(MockProfileRepository)
		blacklist := auth.NewInMemoryTokenBlacklist()
		gate := NewSessionGate(profiles, blacklist, time.Hour, zap.New(core))

		userID := uuid.New()
		profiles.On("FindByUserID", ctx, userID).Return(nil, errors.New("permission denied for table profiles"))

		session, err := gate.Resolve(ctx, userID, "maria@example.com", "")

		assert.Nil(t, session)
		assert.True(t, IsSignOut(err))
		assert.Equal(t, MsgProfileUnavailable, err.Error())
		assert.Equal(t, 1, logs.FilterMessage("profile unavailable, signing out").Len())

		invalidated, err := blacklist.IsUserTokenInvalidated(ctx, userID.String(), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, invalidated)
	})
}

func TestSessionGate_RequireActive(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name    string
		session *identity.Session
		reason  identity.IdentityReason
		signOut bool
	}{
		{"nil session", nil, identity.ReasonNotAuthenticated, false},
		{"no user", &identity.Session{}, identity.ReasonNotAuthenticated, false},
		{"no profile", &identity.Session{UserID: userID}, identity.ReasonProfileUnavailable, true},
		{
			"deactivated",
			&identity.Session{UserID: userID, Profile: &identity.Profile{UserID: userID, Role: identity.RoleAdmin}},
			identity.ReasonDeactivated,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blacklist := auth.NewInMemoryTokenBlacklist()
			gate := NewSessionGate(new(MockProfileRepository), blacklist, time.Hour, nil)

			err := gate.RequireActive(ctx, tt.session)

			var ie *identity.IdentityError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.reason, ie.Reason)
			assert.Equal(t, tt.signOut, IsSignOut(err))

			invalidated, err := blacklist.IsUserTokenInvalidated(ctx, userID.String(), time.Now().Add(-time.Minute))
			require.NoError(t, err)
			assert.Equal(t, tt.signOut, invalidated)
		})
	}
}

func TestSessionGate_RequireAdmin(t *testing.T) {
	gate := NewSessionGate(new(MockProfileRepository), nil, 0, nil)
	userID := uuid.New()

	user := &identity.Session{UserID: userID, Profile: &identity.Profile{UserID: userID, Role: identity.RoleUser, IsActive: true}}
	assert.ErrorIs(t, gate.RequireAdmin(user), shared.ErrForbidden)
	assert.ErrorIs(t, gate.RequireAdmin(nil), shared.ErrForbidden)
}
