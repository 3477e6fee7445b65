package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is the per-account record that scopes a user to an organization
type Profile struct {
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	OrgID     *uuid.UUID `json:"org_id"`
	IsActive  bool       `json:"is_active"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	FullName  string     `json:"full_name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewProfile creates an active profile
func NewProfile(userID uuid.UUID, email string, role Role, orgID *uuid.UUID, fullName string) *Profile {
	now := time.Now()
	first, last := splitName(fullName)
	return &Profile{
		UserID:    userID,
		Email:     strings.TrimSpace(email),
		Role:      role,
		OrgID:     orgID,
		IsActive:  true,
		FirstName: first,
		LastName:  last,
		FullName:  strings.TrimSpace(fullName),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin reports whether the profile holds the admin role
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role.IsAdmin()
}

// HasOrg reports whether an organization is assigned
func (p *Profile) HasOrg() bool {
	return p != nil && p.OrgID != nil && *p.OrgID != uuid.Nil
}

// DisplayName returns the full name, or first and last name joined
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if full := strings.TrimSpace(p.FullName); full != "" {
		return full
	}
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// ProfileUpdate is an admin change to a profile. Nil fields are left as is;
// ClearOrg removes the org assignment.
type ProfileUpdate struct {
	Role     *Role
	OrgID    *uuid.UUID
	ClearOrg bool
	IsActive *bool
}

// Apply mutates p with the update
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Role != nil {
		p.Role = *u.Role
	}
	if u.ClearOrg {
		p.OrgID = nil
	} else if u.OrgID != nil {
		org := *u.OrgID
		p.OrgID = &org
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
	p.UpdatedAt = time.Now()
}

func splitName(full string) (string, string) {
	fields := strings.Fields(full)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
