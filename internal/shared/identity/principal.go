// Package identity carries the caller's identity explicitly through service calls.
package identity

import "strings"

// Principal is the authenticated caller as established by the transport layer.
// The zero value is the anonymous caller.
type Principal struct {
	Username    string   `json:"username"`
	Authorities []string `json:"authorities,omitempty"`
}

// Anonymous returns the principal used for unauthenticated requests.
func Anonymous() Principal { return Principal{} }

// New builds a principal, trimming the username.
func New(username string, authorities ...string) Principal {
	return Principal{Username: strings.TrimSpace(username), Authorities: append([]string(nil), authorities...)}
}

// IsAuthenticated reports whether the principal names a user.
func (p Principal) IsAuthenticated() bool {
	return strings.TrimSpace(p.Username) != ""
}

// HasAnyAuthority reports whether the principal was granted one of the authorities.
func (p Principal) HasAnyAuthority(authorities ...string) bool {
	for _, granted := range p.Authorities {
		for _, wanted := range authorities {
			if granted == wanted {
				return true
			}
		}
	}
	return false
}
