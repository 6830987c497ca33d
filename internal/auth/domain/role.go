package domain

import (
	"strings"
)

// Role is the closed set of identity roles.
type Role string

const (
	RoleRecruiter  Role = "recruiter"
	RoleCompany    Role = "company"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

var knownRoles = map[Role]struct{}{
	RoleRecruiter:  {},
	RoleCompany:    {},
	RoleAdmin:      {},
	RoleSuperadmin: {},
}

// ParseRole accepts any letter case and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := knownRoles[r]; !ok {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := knownRoles[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}

// Authorize returns identity unchanged when its role is one of allowed,
// compared case-insensitively, and ErrOperationNotPermitted otherwise.
// A nil identity is unauthenticated.
func Authorize(identity *Identity, allowed ...Role) (*Identity, error) {
	if identity == nil {
		return nil, ErrUnauthenticated
	}
	for _, role := range allowed {
		if strings.EqualFold(string(identity.Role), string(role)) {
			return identity, nil
		}
	}
	return nil, ErrOperationNotPermitted
}
