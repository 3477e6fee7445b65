package persistence

import (
	"context"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/cuadre/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements identity.OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create inserts an organization
func (r *GormOrganizationRepository) Create(ctx context.Context, o *identity.Organization) error {
	return mapWriteError(r.db.WithContext(ctx).Create(models.OrganizationModelFromDomain(o)).Error)
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	var model models.OrganizationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapReadError(err)
	}
	return model.ToDomain(), nil
}

// ListByName returns every organization ordered by name
func (r *GormOrganizationRepository) ListByName(ctx context.Context) ([]identity.Organization, error) {
	var rows []models.OrganizationModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.Organization, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ identity.OrganizationRepository = (*GormOrganizationRepository)(nil)
