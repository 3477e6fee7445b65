package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountRepository persists login accounts
type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	// CreateWithProfile inserts the account and its profile in one transaction
	CreateWithProfile(ctx context.Context, a *Account, p *Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, a *Account) error
	UpdateLastLogin(ctx context.Context, a *Account) error
}

// ProfileRepository persists profiles
type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
	// ListRecent returns profiles newest first
	ListRecent(ctx context.Context, limit int) ([]Profile, error)
	Update(ctx context.Context, p *Profile) error
}

// OrganizationRepository persists organizations
type OrganizationRepository interface {
	Create(ctx context.Context, o *Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	// ListByName returns every organization ordered by name
	ListByName(ctx context.Context) ([]Organization, error)
}

// ResetTokenStore holds single-use password reset tokens. Only a hash of the
// token is stored.
type ResetTokenStore interface {
	Save(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error
	// Consume returns the owner of the token and deletes it.
	// It returns ErrResetTokenInvalid for unknown or expired tokens.
	Consume(ctx context.Context, tokenHash string) (uuid.UUID, error)
}
