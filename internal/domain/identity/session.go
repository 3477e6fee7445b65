package identity

import (
	"strings"

	"github.com/google/uuid"
)

// Session is the resolved identity behind a request
type Session struct {
	UserID  uuid.UUID
	Email   string
	Profile *Profile
	// TokenID is the JWT id of the presented access token, used to revoke it
	TokenID string
}

// IsAuthenticated reports whether the session carries a user
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != uuid.Nil
}

// IsAdmin reports whether the session's profile is an admin
func (s *Session) IsAdmin() bool {
	return s != nil && s.Profile.IsAdmin()
}

// OrgID returns the profile's organization, nil if none
func (s *Session) OrgID() *uuid.UUID {
	if s == nil || !s.Profile.HasOrg() {
		return nil
	}
	return s.Profile.OrgID
}

// DefaultEmployeeName picks the name prefilled on a new form: the first name,
// else the full name, else the local part of the email, else "".
func DefaultEmployeeName(p *Profile, email string) string {
	if p != nil {
		if first := strings.TrimSpace(p.FirstName); first != "" {
			return first
		}
		if full := p.DisplayName(); full != "" {
			return full
		}
	}
	email = strings.TrimSpace(email)
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return ""
}

// Whoami renders the header line "email • full name • ROLE". The name
// segment is omitted when empty.
func Whoami(email string, p *Profile) string {
	parts := []string{email}
	role := RoleUser
	if p != nil {
		if name := p.DisplayName(); name != "" {
			parts = append(parts, name)
		}
		if p.Role != "" {
			role = p.Role
		}
	}
	parts = append(parts, strings.ToUpper(role.String()))
	return strings.Join(parts, " • ")
}
