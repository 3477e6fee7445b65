package identity

import (
	"context"
	"errors"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileListLimit is how many profiles the admin list returns
const ProfileListLimit = 200

// AdminService manages organizations and user profiles. Callers must have
// passed SessionGate.RequireAdmin.
type AdminService struct {
	accounts identity.AccountRepository
	profiles identity.ProfileRepository
	orgs     identity.OrganizationRepository
	logger   *zap.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	accounts identity.AccountRepository,
	profiles identity.ProfileRepository,
	orgs identity.OrganizationRepository,
	logger *zap.Logger,
) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		accounts: accounts,
		profiles: profiles,
		orgs:     orgs,
		logger:   logger,
	}
}

// CreateOrg creates an organization
func (s *AdminService) CreateOrg(ctx context.Context, name string) (*identity.Organization, error) {
	org, err := identity.NewOrganization(name)
	if err != nil {
		return nil, err
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		s.logger.Error("Failed to create organization", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Organization created",
		zap.String("org_id", org.ID.String()),
		zap.String("name", org.Name),
	)
	return org, nil
}

// ListOrgs returns every organization ordered by name
func (s *AdminService) ListOrgs(ctx context.Context) ([]identity.Organization, error) {
	return s.orgs.ListByName(ctx)
}

// CreateUser creates an account and then its profile
func (s *AdminService) CreateUser(ctx context.Context, input CreateUserInput) (*identity.Profile, error) {
	account, err := identity.NewAccount(input.Email, input.Password)
	if err != nil {
		return nil, err
	}
	exists, err := s.accounts.ExistsByEmail(ctx, account.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "User already registered")
	}

	if input.OrgID != nil {
		if _, err := s.orgs.FindByID(ctx, *input.OrgID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("ORG_NOT_FOUND", "Organization does not exist")
			}
			return nil, err
		}
	}

	role := identity.ParseRole(input.Role)
	profile := identity.NewProfile(account.ID, account.Email, role, input.OrgID, input.FullName)
	if err := s.accounts.CreateWithProfile(ctx, account, profile); err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User created by admin",
		zap.String("user_id", account.ID.String()),
		zap.String("role", role.String()),
	)
	return profile, nil
}

// ListProfiles returns the most recent profiles, newest first
func (s *AdminService) ListProfiles(ctx context.Context) ([]identity.Profile, error) {
	return s.profiles.ListRecent(ctx, ProfileListLimit)
}

// UpdateProfile changes a profile's role, org or active flag
func (s *AdminService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*identity.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.OrgID != nil && !input.ClearOrg {
		if _, err := s.orgs.FindByID(ctx, *input.OrgID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("ORG_NOT_FOUND", "Organization does not exist")
			}
			return nil, err
		}
	}

	update := identity.ProfileUpdate{
		OrgID:    input.OrgID,
		ClearOrg: input.ClearOrg,
		IsActive: input.IsActive,
	}
	if input.Role != nil {
		role := identity.ParseRole(*input.Role)
		update.Role = &role
	}
	update.Apply(profile)

	if err := s.profiles.Update(ctx, profile); err != nil {
		s.logger.Error("Failed to update profile", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Profile updated",
		zap.String("user_id", userID.String()),
		zap.String("role", profile.Role.String()),
		zap.Bool("is_active", profile.IsActive),
	)
	return profile, nil
}
