package user

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of user roles.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

const (
	roleUserName  = "User"
	roleAdminName = "Admin"
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return roleAdminName
	default:
		return roleUserName
	}
}

// ParseRole converts the wire representation back to a Role. Unknown values
// are rejected rather than defaulted.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleUserName:
		return RoleUser, nil
	case roleAdminName:
		return RoleAdmin, nil
	default:
		return RoleUser, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}

	*r = parsed
	return nil
}
