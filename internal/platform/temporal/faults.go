package temporal

import (
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"
)

// FaultKind names a business error that must not be retried and that
// callers need to recognise after it has crossed the workflow boundary.
type FaultKind struct {
	Name string
	Err  error
}

// Faults is an ordered registry of fault kinds; the first match wins.
type Faults []FaultKind

// Wrap turns a registered business error into a non-retryable application
// error typed by the kind name. Other errors are returned unchanged so the
// retry policy applies.
func (f Faults) Wrap(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range f {
		if errors.Is(err, kind.Err) {
			return temporal.NewNonRetryableApplicationError(err.Error(), kind.Name, err)
		}
	}
	return err
}

// Unwrap recovers the registered sentinel from a workflow or activity error
// so errors.Is keeps working on the caller's side.
func (f Faults) Unwrap(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	for _, kind := range f {
		if kind.Name == appErr.Type() {
			return fmt.Errorf("%w: %s", kind.Err, appErr.Message())
		}
	}
	return err
}
