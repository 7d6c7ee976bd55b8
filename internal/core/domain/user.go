package domain

import (
	"errors"
	"fmt"
	"time"
)

// Role is the closed set of roles a user can hold. Values read from storage
// or client input must pass through ParseRole; anything outside the set is
// rejected rather than passed along.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Valid reports whether the role is one of the known members.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so a
	// caller cannot tell which one occurred.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken covers every token verification failure (bad signature,
	// expired, wrong audience or issuer, malformed) with a single outcome.
	ErrInvalidToken  = errors.New("could not validate credentials")
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("user already exists")
	ErrInactiveUser  = errors.New("inactive user")
	ErrForbidden     = errors.New("access forbidden: insufficient role")
	ErrUnknownRole   = errors.New("unknown role")
	ErrTooManyLogins = errors.New("too many failed login attempts")
)

// User models an account resolved from storage. PasswordHash never leaves the
// process via JSON.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
