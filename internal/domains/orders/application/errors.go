package application

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound signals the requested order does not exist.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrInvalidInput signals the order violated an invariant.
	ErrInvalidInput = errors.New("invalid order input")
)

func notFound(id int64) error {
	return fmt.Errorf("%w: order %d", ErrResourceNotFound, id)
}
