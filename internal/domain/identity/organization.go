package identity

import (
	"strings"

	"github.com/cuadre/backend/internal/domain/shared"
)

// Organization is a store or business unit that owns form entries
type Organization struct {
	shared.BaseEntity
	Name string `json:"name"`
}

// ErrMissingOrgName is returned for a blank organization name
var ErrMissingOrgName = shared.NewDomainError("MISSING_ORG_NAME", "Missing org name")

// NewOrganization creates an organization with a trimmed, non-empty name
func NewOrganization(name string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingOrgName
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_ORG_NAME", "Org name cannot exceed 200 characters")
	}
	return &Organization{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}
