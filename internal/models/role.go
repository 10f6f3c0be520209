// Package models contains the persistent entities, request identity, and error types of the forum.
package models

import (
	"database/sql/driver"
	"fmt"
)

// Role is the closed set of account roles. The zero value is not a valid role.
type Role uint8

const (
	RoleUser Role = iota + 1
	RoleModerator
	RoleAdmin
)

// legacyModeratorName is accepted on input for accounts and tokens created before
// the role was renamed. It is never emitted.
const legacyModeratorName = "mod"

// AllRoles lists every valid role, lowest privilege first.
func AllRoles() []Role {
	return []Role{RoleUser, RoleModerator, RoleAdmin}
}

// ParseRole maps the wire name of a role onto the enum.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "user":
		return RoleUser, true
	case "moderator", legacyModeratorName:
		return RoleModerator, true
	case "admin":
		return RoleAdmin, true
	default:
		return 0, false
	}
}

// IsValid reports whether r is one of the defined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, ok := ParseRole(string(text))
	if !ok {
		return fmt.Errorf("invalid role %q", string(text))
	}
	*r = parsed
	return nil
}

// Value stores the role by name.
func (r Role) Value() (driver.Value, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return r.String(), nil
}

// Scan reads a role name from the database.
func (r *Role) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	case nil:
		return fmt.Errorf("role is null")
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
}

// GormDataType maps the role onto a string column.
func (Role) GormDataType() string {
	return "string"
}
