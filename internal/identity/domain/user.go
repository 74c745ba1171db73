package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of authorization roles a user may hold.
type Role string

const (
	RoleUser     Role = "user"
	RoleAdmin    Role = "admin"
	RoleSurveyor Role = "surveyor"
	RoleProUser  Role = "pro-user"
)

// Roles lists every known role.
var Roles = []Role{RoleUser, RoleAdmin, RoleSurveyor, RoleProUser}

// ParseRole validates raw input against the known roles.
func ParseRole(raw string) (Role, error) {
	trimmed := Role(strings.TrimSpace(raw))
	for _, role := range Roles {
		if trimmed == role {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

func (r Role) String() string {
	return string(r)
}

// User is an account identified by its email.
type User struct {
	ID        string
	Email     string
	Name      string
	PhotoURL  string
	Role      Role
	CreatedAt time.Time
}

// HasRole is the single predicate every role check goes through.
func HasRole(user *User, required Role) bool {
	if user == nil {
		return false
	}
	return user.Role == required
}
