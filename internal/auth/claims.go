package auth

import (
	"time"

	"resq-relief/resq/internal/constants"
)

// UserClaims is the identity a request carries once authenticated.
type UserClaims interface {
	UserID() string
	Role() constants.Role
	TokenID() string
	ExpiresAt() time.Time
	HasRole(roles ...constants.Role) bool
}

type JWTClaims struct {
	UserUUID  string
	RoleValue constants.Role
	JTI       string
	Expiry    time.Time
}

func (c *JWTClaims) UserID() string       { return c.UserUUID }
func (c *JWTClaims) Role() constants.Role { return c.RoleValue }
func (c *JWTClaims) TokenID() string      { return c.JTI }
func (c *JWTClaims) ExpiresAt() time.Time { return c.Expiry }

func (c *JWTClaims) HasRole(roles ...constants.Role) bool {
	for _, r := range roles {
		if c.RoleValue == r {
			return true
		}
	}
	return false
}
