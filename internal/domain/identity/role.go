// Package identity models who is filling a form: accounts, their profiles
// and the organizations they belong to.
package identity

import "strings"

// Role is a profile's access level
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole grants admin only when "admin" is asked for explicitly. Anything
// else is a plain user.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// IsAdmin reports whether r is the admin role
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
