package application

import (
	"errors"
	"fmt"

	"github.com/devsuperior/dscommerce/internal/domains/catalog/ports"
	"github.com/devsuperior/dscommerce/internal/shared/validation"
)

var (
	// ErrResourceNotFound signals the requested product does not exist.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrDatabaseConstraint signals a delete refused by referential integrity.
	ErrDatabaseConstraint = errors.New("referential integrity failure")
	// ErrInvalidInput signals the request violated a product invariant.
	ErrInvalidInput = errors.New("invalid product input")
)

func notFound(id int64) error {
	return fmt.Errorf("%w: product %d", ErrResourceNotFound, id)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := validation.As(err); ok {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrCategoryNotFound) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrIntegrityViolation) {
		return fmt.Errorf("%w: %w", ErrDatabaseConstraint, err)
	}
	return err
}
