package persistence

import (
	"context"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/domain/shared"
	"github.com/cuadre/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProfileRepository implements identity.ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// Create inserts a profile
func (r *GormProfileRepository) Create(ctx context.Context, p *identity.Profile) error {
	return mapWriteError(r.db.WithContext(ctx).Create(models.ProfileModelFromDomain(p)).Error)
}

// FindByUserID loads the profile of a user
func (r *GormProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	var model models.ProfileModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		return nil, mapReadError(err)
	}
	return model.ToDomain(), nil
}

// ListRecent returns up to limit profiles, newest first
func (r *GormProfileRepository) ListRecent(ctx context.Context, limit int) ([]identity.Profile, error) {
	var rows []models.ProfileModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.Profile, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Update writes role, org and active flag
func (r *GormProfileRepository) Update(ctx context.Context, p *identity.Profile) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProfileModel{}).
		Where("user_id = ?", p.UserID).
		Updates(map[string]any{
			"role":       p.Role.String(),
			"org_id":     p.OrgID,
			"is_active":  p.IsActive,
			"updated_at": p.UpdatedAt,
		})
	if result.Error != nil {
		return mapWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ identity.ProfileRepository = (*GormProfileRepository)(nil)
