package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type adminFixture struct {
	accounts *MockAccountRepository
	profiles *MockProfileRepository
	orgs     *MockOrganizationRepository
	service  *AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		accounts: new(MockAccountRepository),
		profiles: new(MockProfileRepository),
		orgs:     new(MockOrganizationRepository),
	}
	f.service = NewAdminService(f.accounts, f.profiles, f.orgs, zap.NewNop())
	return f
}

func TestAdminService_CreateOrg(t *testing.T) {
	t.Run("trims the name", func(t *testing.T) {
		ctx := context.Background()
		f := newAdminFixture()
		f.orgs.On("Create", ctx, mock.MatchedBy(func(o *identity.Organization) bool {
			return o.Name == "Tienda Centro" && o.ID != uuid.Nil
		})).Return(nil)

		org, err := f.service.CreateOrg(ctx, "  Tienda Centro ")

		require.NoError(t, err)
		assert.Equal(t, "Tienda Centro", org.Name)
		f.orgs.AssertExpectations(t)
	})

	t.Run("blank name", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.service.CreateOrg(context.Background(), "   ")
		assert.ErrorIs(t, err, identity.ErrMissingOrgName)
		f.orgs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAdminService_ListOrgs(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	orgs := []identity.Organization{{Name: "A"}, {Name: "B"}}
	f.orgs.On("ListByName", ctx).Return(orgs, nil)

	got, err := f.service.ListOrgs(ctx)

	require.NoError(t, err)
	assert.Equal(t, orgs, got)
}

func TestAdminService_CreateUser(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		wantRole  identity.Role
		withOrg   bool
		wantOrgID bool
	}{
		{name: "default role is user", role: "", wantRole: identity.RoleUser, withOrg: true, wantOrgID: true},
		{name: "unknown role is user", role: "owner", wantRole: identity.RoleUser},
		{name: "admin only when asked", role: " Admin ", wantRole: identity.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newAdminFixture()

			var orgID *uuid.UUID
			if tt.withOrg {
				id := uuid.New()
				orgID = &id
				f.orgs.On("FindByID", ctx, id).Return(&identity.Organization{Name: "Tienda"}, nil)
			}
			f.accounts.On("ExistsByEmail", ctx, "clerk@example.com").Return(false, nil)
			f.accounts.On("CreateWithProfile", ctx, mock.AnythingOfType("*identity.Account"), mock.AnythingOfType("*identity.Profile")).Return(nil)

			profile, err := f.service.CreateUser(ctx, CreateUserInput{
				Email:    "clerk@example.com",
				Password: testPassword,
				FullName: "Luis Perez",
				Role:     tt.role,
				OrgID:    orgID,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, profile.Role)
			assert.Equal(t, tt.wantOrgID, profile.OrgID != nil)
			assert.Equal(t, "Luis", profile.FirstName)
			assert.True(t, profile.IsActive)
			f.accounts.AssertExpectations(t)
			f.orgs.AssertExpectations(t)
		})
	}
}

func TestAdminService_CreateUser_Rejections(t *testing.T) {
	t.Run("missing password", func(t *testing.T) {
		f := newAdminFixture()
		_, err := f.service.CreateUser(context.Background(), CreateUserInput{Email: "clerk@example.com"})
		assert.ErrorIs(t, err, identity.ErrMissingCredentials)
	})

	t.Run("unknown org", func(t *testing.T) {
		ctx := context.Background()
		f := newAdminFixture()
		orgID := uuid.New()
		f.accounts.On("ExistsByEmail", ctx, "clerk@example.com").Return(false, nil)
		f.orgs.On("FindByID", ctx, orgID).Return(nil, shared.ErrNotFound)

		_, err := f.service.CreateUser(ctx, CreateUserInput{Email: "clerk@example.com", Password: testPassword, OrgID: &orgID})

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "ORG_NOT_FOUND", domainErr.Code)
		f.accounts.AssertNotCalled(t, "CreateWithProfile", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAdminService_ListProfiles(t *testing.T) {
	ctx := context.Background()
	f := newAdminFixture()
	f.profiles.On("ListRecent", ctx, ProfileListLimit).Return([]identity.Profile{{Email: "a@example.com"}}, nil)

	got, err := f.service.ListProfiles(ctx)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	f.profiles.AssertExpectations(t)
}

func TestAdminService_UpdateProfile(t *testing.T) {
	t.Run("role org and active flag", func(t *testing.T) {
		ctx := context.Background()
		f := newAdminFixture()
		userID := uuid.New()
		orgID := uuid.New()
		profile := &identity.Profile{UserID: userID, Role: identity.RoleUser, IsActive: true}
		f.profiles.On("FindByUserID", ctx, userID).Return(profile, nil)
		f.orgs.On("FindByID", ctx, orgID).Return(&identity.Organization{Name: "Tienda"}, nil)
		f.profiles.On("Update", ctx, profile).Return(nil)

		role := "admin"
		inactive := false
		got, err := f.service.UpdateProfile(ctx, userID, UpdateProfileInput{Role: &role, OrgID: &orgID, IsActive: &inactive})

		require.NoError(t, err)
		assert.Equal(t, identity.RoleAdmin, got.Role)
		assert.Equal(t, orgID, *got.OrgID)
		assert.False(t, got.IsActive)
		f.profiles.AssertExpectations(t)
	})

	t.Run("clear org", func(t *testing.T) {
		ctx := context.Background()
		f := newAdminFixture()
		userID := uuid.New()
		orgID := uuid.New()
		profile := &identity.Profile{UserID: userID, Role: identity.RoleUser, OrgID: &orgID, IsActive: true}
		f.profiles.On("FindByUserID", ctx, userID).Return(profile, nil)
		f.profiles.On("Update", ctx, profile).Return(nil)

		got, err := f.service.UpdateProfile(ctx, userID, UpdateProfileInput{ClearOrg: true})

		require.NoError(t, err)
		assert.Nil(t, got.OrgID)
		assert.Equal(t, identity.RoleUser, got.Role)
		f.orgs.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("missing profile", func(t *testing.T) {
		ctx := context.Background()
		f := newAdminFixture()
		userID := uuid.New()
		f.profiles.On("FindByUserID", ctx, userID).Return(nil, shared.ErrNotFound)

		_, err := f.service.UpdateProfile(ctx, userID, UpdateProfileInput{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
