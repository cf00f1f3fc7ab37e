package application

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound covers both an unknown username and an anonymous caller.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials signals a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

func userNotFound(detail string) error {
	return fmt.Errorf("%w: %s", ErrUserNotFound, detail)
}
