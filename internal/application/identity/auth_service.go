package identity

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ResetMailer delivers password reset links
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	ResetTokenTTL time.Duration // How long a reset link stays valid
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		ResetTokenTTL: time.Hour,
	}
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid login credentials")

// AuthService handles authentication operations
type AuthService struct {
	accounts   identity.AccountRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	resets     identity.ResetTokenStore
	mailer     ResetMailer
	gate       *SessionGate
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	accounts identity.AccountRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	resets identity.ResetTokenStore,
	mailer ResetMailer,
	gate *SessionGate,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ResetTokenTTL <= 0 {
		config.ResetTokenTTL = DefaultAuthServiceConfig().ResetTokenTTL
	}
	return &AuthService{
		accounts:   accounts,
		jwtService: jwtService,
		blacklist:  blacklist,
		resets:     resets,
		mailer:     mailer,
		gate:       gate,
		config:     config,
		logger:     logger,
	}
}

// Login authenticates a user and returns tokens. Deactivated accounts are
// refused.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := identity.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, identity.ErrMissingCredentials
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("email", email))
			return nil, errInvalidCredentials
		}
		s.logger.Error("Failed to load account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load account")
	}
	if !account.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email))
		return nil, errInvalidCredentials
	}

	session, err := s.gate.Resolve(ctx, account.ID, account.Email, "")
	if err != nil {
		return nil, err
	}
	if err := s.gate.RequireActive(ctx, session); err != nil {
		return nil, err
	}

	pair, err := s.jwtService.GenerateTokenPair(account.ID, account.Email)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	account.RecordLogin()
	if err := s.accounts.UpdateLastLogin(ctx, account); err != nil {
		// Don't fail the login - just log the error
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", account.ID.String()),
		zap.String("role", session.Profile.Role.String()),
	)
	return &LoginResult{
		TokenResult: tokenResult(pair),
		User:        NewUserInfo(account.ID, account.Email, session.Profile),
	}, nil
}

// Signup creates an account with a plain user profile and no organization
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*UserInfo, error) {
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

	profile := identity.NewProfile(account.ID, account.Email, identity.RoleUser, nil, input.FullName)
	if err := s.accounts.CreateWithProfile(ctx, account, profile); err != nil {
		s.logger.Error("Failed to create account", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Account signed up", zap.String("user_id", account.ID.String()))
	info := NewUserInfo(account.ID, account.Email, profile)
	return &info, nil
}

// Refresh exchanges a refresh token for a new pair. Revoked tokens and
// deactivated accounts are refused.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	revoked, err := auth.IsRevoked(ctx, s.blacklist, claims)
	if err != nil {
		s.logger.Error("Failed to check token revocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate refresh token")
	}
	if revoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}
	session, err := s.gate.Resolve(ctx, userID, claims.Email, claims.ID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.RequireActive(ctx, session); err != nil {
		return nil, err
	}

	pair, _, err := s.jwtService.RefreshTokenPair(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	result := tokenResult(pair)
	return &result, nil
}

// Logout revokes the presented token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout", zap.String("user_id", input.UserID.String()))
	if s.blacklist == nil || input.TokenJTI == "" {
		return nil
	}
	ttl := input.ExpiresIn
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to sign out")
	}
	return nil
}

// Me returns the signed-in user's header information
func (s *AuthService) Me(session *identity.Session) UserInfo {
	return NewUserInfo(session.UserID, session.Email, session.Profile)
}

// RequestPasswordReset mails a single-use reset link. Unknown addresses are
// not revealed to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return shared.NewDomainError("MISSING_EMAIL", "Email is required")
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("Password reset for unknown email", zap.String("email", email))
			return nil
		}
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	if err := s.resets.Save(ctx, hashResetToken(token), account.ID, s.config.ResetTokenTTL); err != nil {
		s.logger.Error("Failed to store reset token", zap.Error(err))
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, account.Email, token); err != nil {
		s.logger.Error("Failed to send password reset", zap.String("user_id", account.ID.String()), zap.Error(err))
		return shared.ErrServiceFailure
	}

	s.logger.Info("Password reset sent", zap.String("user_id", account.ID.String()))
	return nil
}

// ConfirmPasswordReset sets a new password with a reset token. Every token
// issued before the reset is revoked.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, input ResetConfirmInput) error {
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return identity.ErrResetTokenInvalid
	}
	userID, err := s.resets.Consume(ctx, hashResetToken(token))
	if err != nil {
		return err
	}

	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := account.SetPassword(input.NewPassword); err != nil {
		return err
	}
	account.ConfirmEmail()
	if err := s.accounts.UpdatePassword(ctx, account); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	if s.blacklist != nil {
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
			s.logger.Error("Failed to revoke tokens after reset", zap.Error(err))
		}
	}
	s.logger.Info("Password reset completed", zap.String("user_id", userID.String()))
	return nil
}

func tokenResult(pair *auth.TokenPair) TokenResult {
	return TokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

// mapTokenError maps JWT errors to domain errors
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrInvalidClaims):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to refresh token")
	}
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashResetToken is the form a reset token is stored in
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
