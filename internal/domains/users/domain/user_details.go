package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoCredentialRows = errors.New("no credential rows")
	ErrMixedCredentials = errors.New("credential rows belong to different users")
	ErrPasswordMismatch = errors.New("credential rows disagree on password hash")
)

// UserDetailsRow is one row of the login projection: a user joined with one
// of its roles.
type UserDetailsRow struct {
	Username  string
	Password  string
	RoleID    int64
	Authority string
}

// UserDetails is the authentication principal built from the projection.
type UserDetails struct {
	Username string
	Password string
	Roles    []Role
}

// Authorities lists the granted role names.
func (d *UserDetails) Authorities() []string {
	out := make([]string, 0, len(d.Roles))
	for _, r := range d.Roles {
		out = append(out, r.Authority)
	}
	return out
}

// FoldUserDetails collapses the per-role rows of a single user into one
// principal. Roles keep first-seen order and are deduplicated by authority.
func FoldUserDetails(rows []UserDetailsRow) (*UserDetails, error) {
	if len(rows) == 0 {
		return nil, ErrNoCredentialRows
	}
	details := &UserDetails{Username: rows[0].Username, Password: rows[0].Password}
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if row.Username != details.Username {
			return nil, fmt.Errorf("%w: %q and %q", ErrMixedCredentials, details.Username, row.Username)
		}
		if row.Password != details.Password {
			return nil, fmt.Errorf("%w for %q", ErrPasswordMismatch, details.Username)
		}
		if _, ok := seen[row.Authority]; ok {
			continue
		}
		seen[row.Authority] = struct{}{}
		details.Roles = append(details.Roles, Role{ID: row.RoleID, Authority: row.Authority})
	}
	return details, nil
}
