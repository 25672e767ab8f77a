package entity

import "strings"

// Role is the profile role that decides access to the administration area.
type Role string

const (
	// RoleCustomer is given to every new account.
	RoleCustomer Role = "customer"
	// RoleAdmin grants access to the administration area.
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Label is the role name shown in the administration user list.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrateur"
	case RoleCustomer:
		return "Client"
	default:
		return string(r)
	}
}

// ParseRole reads a role filter value; "", "all" and "tous" mean no filter.
func ParseRole(s string) (role Role, filtered bool) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "all", "tous":
		return "", false
	default:
		return Role(v), true
	}
}

// Claims returns the role as carried in access-token claims.
func (r Role) Claims() []string {
	if r == "" {
		return nil
	}

	return []string{string(r)}
}
