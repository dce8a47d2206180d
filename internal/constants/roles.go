package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role is the platform role carried by every user and every token.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleVolunteer Role = "VOLUNTEER"
	RoleDonor     Role = "DONOR"
	RoleVictim    Role = "VICTIM"
)

var Roles = []Role{RoleAdmin, RoleVolunteer, RoleDonor, RoleVictim}

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }

func ParseRole(raw string) (Role, error) {
	return ParseEnum("role", raw, Roles)
}
