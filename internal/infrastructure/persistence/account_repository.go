package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements identity.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// Create inserts an account. A duplicate email returns shared.ErrAlreadyExists.
func (r *GormAccountRepository) Create(ctx context.Context, a *identity.Account) error {
	return mapWriteError(r.db.WithContext(ctx).Create(models.AccountModelFromDomain(a)).Error)
}

// CreateWithProfile inserts the account and its profile in one transaction
func (r *GormAccountRepository) CreateWithProfile(ctx context.Context, a *identity.Account, p *identity.Profile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.AccountModelFromDomain(a)).Error; err != nil {
			return err
		}
		return tx.Create(models.ProfileModelFromDomain(p)).Error
	})
	return mapWriteError(err)
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds an account by email, case-insensitively
func (r *GormAccountRepository) FindByEmail(ctx context.Context, email string) (*identity.Account, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, shared.ErrNotFound
	}
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", email).First(&model).Error; err != nil {
		return nil, mapReadError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks whether an account uses email
func (r *GormAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AccountModel{}).
		Where("LOWER(email) = ?", identity.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// UpdatePassword stores a new password hash
func (r *GormAccountRepository) UpdatePassword(ctx context.Context, a *identity.Account) error {
	return r.updateColumns(ctx, a.ID, map[string]any{
		"password_hash": a.PasswordHash,
		"updated_at":    a.UpdatedAt,
	})
}

// UpdateLastLogin stores the last login time
func (r *GormAccountRepository) UpdateLastLogin(ctx context.Context, a *identity.Account) error {
	at := time.Now()
	if a.LastLoginAt != nil {
		at = *a.LastLoginAt
	}
	return r.updateColumns(ctx, a.ID, map[string]any{"last_login_at": at})
}

func (r *GormAccountRepository) updateColumns(ctx context.Context, id uuid.UUID, values map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.AccountModel{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func mapReadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if sqlState(err) == codeUniqueViolation {
		return shared.ErrAlreadyExists
	}
	return err
}

var _ identity.AccountRepository = (*GormAccountRepository)(nil)
