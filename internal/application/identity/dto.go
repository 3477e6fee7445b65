package identity

import (
	"time"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// SignupInput contains the input for self-service signup
type SignupInput struct {
	Email    string
	Password string
	FullName string
}

// TokenResult is an issued access and refresh token pair
type TokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	TokenResult
	User UserInfo
}

// UserInfo is the signed-in user as shown in the header
type UserInfo struct {
	ID       uuid.UUID
	Email    string
	Role     identity.Role
	OrgID    *uuid.UUID
	FullName string
	IsActive bool
	Whoami   string
}

// NewUserInfo builds a UserInfo from an email and its profile
func NewUserInfo(userID uuid.UUID, email string, p *identity.Profile) UserInfo {
	info := UserInfo{ID: userID, Email: email, Role: identity.RoleUser, Whoami: identity.Whoami(email, p)}
	if p != nil {
		info.Role = p.Role
		info.OrgID = p.OrgID
		info.FullName = p.DisplayName()
		info.IsActive = p.IsActive
	}
	return info
}

// LogoutInput identifies the token to revoke
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	// ExpiresIn is the remaining lifetime of the token; the revocation lasts as long
	ExpiresIn time.Duration
}

// ResetConfirmInput completes a password reset
type ResetConfirmInput struct {
	Token       string
	NewPassword string
}

// CreateUserInput is an admin-created account with its profile
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	// Role is "admin" only when asked for explicitly
	Role  string
	OrgID *uuid.UUID
}

// UpdateProfileInput is an admin change to a profile
type UpdateProfileInput struct {
	Role     *string
	OrgID    *uuid.UUID
	ClearOrg bool
	IsActive *bool
}
