package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles a user can hold. Access decisions
// compare against these constants, never against free-form strings.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleSeller   Role = "Seller"
	RoleCustomer Role = "Customer"
)

// ParseRole maps a role string (e.g. from a token claim or a request
// payload) to a known Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// User represents a registered account
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        string    `json:"email" db:"email"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
