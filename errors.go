package resman

import (
	"errors"
	"fmt"
)

// Engine errors
var (
	// ErrResourceNotFound reports that a lookup key matched nothing in a
	// manager, its fallback, or any linked manager.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrNilResource reports an attempt to add a nil resource to a manager.
	ErrNilResource = errors.New("resource cannot be nil")
)

// UnavailableError reports that a matched resource exists but its bytes or
// text could not be produced by any strategy. It carries the last underlying
// error for diagnostics.
type UnavailableError struct {
	Package string
	Name    string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("resource %s/%s unavailable: %v", e.Package, e.Name, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
