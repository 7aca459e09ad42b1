package session

import (
	"encoding/json"
	"strings"
)

// Role is the coarse authorization tag carried by a credential.
type Role string

const (
	RoleUnknown    Role = ""
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole maps a backend role string onto the closed set. Anything
// unrecognised becomes RoleUnknown.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleSuperAdmin:
		return RoleSuperAdmin
	default:
		return RoleUnknown
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) String() string {
	return string(r)
}

func (r Role) MarshalJSON() ([]byte, error) {
	if r == RoleUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*r = RoleUnknown
		return nil
	}
	*r = ParseRole(*s)
	return nil
}

// RoleSet is a route's allow-list. The zero value allows every role.
type RoleSet struct {
	roles map[Role]struct{}
}

// Roles builds an allow-list.
func Roles(roles ...Role) RoleSet {
	set := RoleSet{roles: make(map[Role]struct{}, len(roles))}
	for _, r := range roles {
		if r.Valid() {
			set.roles[r] = struct{}{}
		}
	}
	return set
}

// Restricted reports whether the set limits access at all.
func (s RoleSet) Restricted() bool {
	return len(s.roles) > 0
}

// Allows reports whether r may pass. RoleUnknown never passes a restricted set.
func (s RoleSet) Allows(r Role) bool {
	if !s.Restricted() {
		return true
	}
	_, ok := s.roles[r]
	return ok
}

// List returns the members in a stable order.
func (s RoleSet) List() []Role {
	out := make([]Role, 0, len(s.roles))
	for _, r := range []Role{RoleAdmin, RoleSuperAdmin} {
		if _, ok := s.roles[r]; ok {
			out = append(out, r)
		}
	}
	return out
}
