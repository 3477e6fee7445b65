package models

import (
	"time"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// AccountModel is the persistence model for identity.Account
type AccountModel struct {
	BaseModel
	Email          string `gorm:"type:varchar(320);not null"`
	PasswordHash   string `gorm:"type:varchar(255);not null"`
	EmailConfirmed bool   `gorm:"not null"`
	LastLoginAt    *time.Time
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the model to an identity.Account
func (m *AccountModel) ToDomain() *identity.Account {
	return &identity.Account{
		BaseEntity:     m.BaseModel.ToDomain(),
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		EmailConfirmed: m.EmailConfirmed,
		LastLoginAt:    m.LastLoginAt,
	}
}

// AccountModelFromDomain creates an AccountModel from an identity.Account
func AccountModelFromDomain(a *identity.Account) *AccountModel {
	m := &AccountModel{
		Email:          a.Email,
		PasswordHash:   a.PasswordHash,
		EmailConfirmed: a.EmailConfirmed,
		LastLoginAt:    a.LastLoginAt,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}

// ProfileModel is the persistence model for identity.Profile
type ProfileModel struct {
	UserID    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email     string     `gorm:"type:varchar(320);not null"`
	Role      string     `gorm:"type:varchar(20);not null"`
	OrgID     *uuid.UUID `gorm:"type:uuid"`
	IsActive  bool       `gorm:"not null"`
	FirstName string     `gorm:"type:varchar(100)"`
	LastName  string     `gorm:"type:varchar(100)"`
	FullName  string     `gorm:"type:varchar(200)"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the model to an identity.Profile
func (m *ProfileModel) ToDomain() *identity.Profile {
	return &identity.Profile{
		UserID:    m.UserID,
		Email:     m.Email,
		Role:      identity.ParseRole(m.Role),
		OrgID:     m.OrgID,
		IsActive:  m.IsActive,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		FullName:  m.FullName,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ProfileModelFromDomain creates a ProfileModel from an identity.Profile
func ProfileModelFromDomain(p *identity.Profile) *ProfileModel {
	return &ProfileModel{
		UserID:    p.UserID,
		Email:     p.Email,
		Role:      p.Role.String(),
		OrgID:     p.OrgID,
		IsActive:  p.IsActive,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// OrganizationModel is the persistence model for identity.Organization
type OrganizationModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the model to an identity.Organization
func (m *OrganizationModel) ToDomain() *identity.Organization {
	return &identity.Organization{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name}
}

// OrganizationModelFromDomain creates an OrganizationModel from an identity.Organization
func OrganizationModelFromDomain(o *identity.Organization) *OrganizationModel {
	m := &OrganizationModel{Name: o.Name}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}
