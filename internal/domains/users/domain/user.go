package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleClient = "ROLE_CLIENT"
	RoleAdmin  = "ROLE_ADMIN"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrEmptyPassword = errors.New("password is required")
)

// Role is an authority granted to users.
type Role struct {
	ID        int64
	Authority string
}

// User is an account. The email doubles as the login username.
type User struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	BirthDate time.Time
	// Password holds the encoded hash, never the raw secret.
	Password string
	Roles    []Role
}

// Username is the login name.
func (u *User) Username() string { return u.Email }

// AddRole grants a role once.
func (u *User) AddRole(role Role) {
	if u.HasRole(role.Authority) {
		return
	}
	u.Roles = append(u.Roles, role)
}

// HasRole reports whether the user holds authority.
func (u *User) HasRole(authority string) bool {
	for _, r := range u.Roles {
		if r.Authority == authority {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool { return u.HasRole(RoleAdmin) }

// Authorities lists role names in grant order.
func (u *User) Authorities() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Authority)
	}
	return out
}

// Validate checks the account invariants.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(u.Password) == "" {
		return ErrEmptyPassword
	}
	return nil
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Roles = append([]Role(nil), u.Roles...)
	return &cp
}
