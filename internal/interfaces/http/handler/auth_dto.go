package handler

import (
	"time"

	appidentity "github.com/cuadre/backend/internal/application/identity"
	"github.com/google/uuid"
)

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

// SignupRequest represents the request body for self-service signup
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=128"`
	FullName string `json:"full_name" binding:"max=200"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// PasswordResetRequest asks for a reset email
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest sets a new password with a mailed token
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,max=128"`
}

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type" example:"Bearer"`
}

// UserResponse is the signed-in user as shown in the page header
type UserResponse struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email" example:"maria@example.com"`
	Role     string     `json:"role" example:"user"`
	OrgID    *uuid.UUID `json:"org_id"`
	FullName string     `json:"full_name" example:"Maria Lopez"`
	IsActive bool       `json:"is_active"`
	Whoami   string     `json:"whoami" example:"maria@example.com • Maria Lopez • USER"`
}

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// MessageResponse carries a short confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

func toTokenResponse(t appidentity.TokenResult) TokenResponse {
	return TokenResponse{
		AccessToken:           t.AccessToken,
		RefreshToken:          t.RefreshToken,
		AccessTokenExpiresAt:  t.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: t.RefreshTokenExpiresAt,
		TokenType:             t.TokenType,
	}
}

func toUserResponse(u appidentity.UserInfo) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Role:     u.Role.String(),
		OrgID:    u.OrgID,
		FullName: u.FullName,
		IsActive: u.IsActive,
		Whoami:   u.Whoami,
	}
}
