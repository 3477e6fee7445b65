package handler

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/cuadre/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// CreateOrgRequest names a new organization
type CreateOrgRequest struct {
	Name string `json:"name" binding:"required,notblank,max=200" example:"Bodega Central"`
}

// CreateUserRequest is an admin-created account
type CreateUserRequest struct {
	Email    string     `json:"email" binding:"required,email,max=254"`
	Password string     `json:"password" binding:"required,max=128"`
	FullName string     `json:"full_name" binding:"max=200"`
	Role     string     `json:"role" binding:"omitempty,oneof=admin user" example:"user"`
	OrgID    *uuid.UUID `json:"org_id"`
}

// NullableUUID tells an absent field from an explicit null
type NullableUUID struct {
	Set   bool
	Value *uuid.UUID
}

// UnmarshalJSON records that the field was present
func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// UpdateProfileRequest changes any of role, org or active flag. An explicit
// null org_id removes the organization.
type UpdateProfileRequest struct {
	Role     *string      `json:"role" binding:"omitempty,oneof=admin user" example:"admin"`
	OrgID    NullableUUID `json:"org_id" swaggertype:"string" format:"uuid"`
	IsActive *bool        `json:"is_active"`
}

// OrgResponse is one organization
type OrgResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" example:"Bodega Central"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResponse is one user profile as listed to admins
type ProfileResponse struct {
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email"`
	Role      string     `json:"role" example:"user"`
	OrgID     *uuid.UUID `json:"org_id"`
	IsActive  bool       `json:"is_active"`
	FullName  string     `json:"full_name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func toOrgResponse(o *identity.Organization) OrgResponse {
	return OrgResponse{ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt}
}

func toProfileResponse(p *identity.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:    p.UserID,
		Email:     p.Email,
		Role:      p.Role.String(),
		OrgID:     p.OrgID,
		IsActive:  p.IsActive,
		FullName:  p.FullName,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
