package streambase

import "fmt"

// PrincipalKind tags the active variant of a Principal.
type PrincipalKind string

const (
	KindNone  PrincipalKind = "none"
	KindUser  PrincipalKind = "user"
	KindAdmin PrincipalKind = "admin"
)

// Principal is the authenticated identity of the current session. Exactly one
// variant is active: the zero value is None, NewUserPrincipal builds a User,
// NewAdminPrincipal builds an Admin. Roles is populated only for users,
// PrivilegeLevel only for admins.
type Principal struct {
	Kind           PrincipalKind `json:"kind"`
	ID             string        `json:"id,omitempty"`
	Name           string        `json:"name,omitempty"`
	Email          string        `json:"email,omitempty"`
	Roles          []string      `json:"roles,omitempty"`
	PrivilegeLevel int           `json:"privilege_level,omitempty"`
}

// NoPrincipal is the None variant.
func NoPrincipal() Principal {
	return Principal{Kind: KindNone}
}

// NewUserPrincipal builds a User principal.
func NewUserPrincipal(id, name, email string, roles []string) Principal {
	return Principal{
		Kind:  KindUser,
		ID:    id,
		Name:  name,
		Email: email,
		Roles: append([]string(nil), roles...),
	}
}

// NewAdminPrincipal builds an Admin principal.
func NewAdminPrincipal(id, name, email string, privilegeLevel int) Principal {
	return Principal{
		Kind:           KindAdmin,
		ID:             id,
		Name:           name,
		Email:          email,
		PrivilegeLevel: privilegeLevel,
	}
}

func (p Principal) IsNone() bool {
	return p.Kind == KindNone || p.Kind == ""
}

func (p Principal) IsUser() bool {
	return p.Kind == KindUser
}

func (p Principal) IsAdmin() bool {
	return p.Kind == KindAdmin
}

// HasRole reports whether a User principal carries the given role. Admin and
// None principals have no roles.
func (p Principal) HasRole(role string) bool {
	if !p.IsUser() {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) String() string {
	switch {
	case p.IsUser():
		return fmt.Sprintf("user id=%s email=%s roles=%v", p.ID, p.Email, p.Roles)
	case p.IsAdmin():
		return fmt.Sprintf("admin id=%s email=%s level=%d", p.ID, p.Email, p.PrivilegeLevel)
	default:
		return "anonymous"
	}
}
