package catalog

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is wrapped when two entries share an id.
var ErrDuplicateID = errors.New("duplicate game id")

// LoadError wraps any failure to fetch, decode or validate the catalog document.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load catalog from %s: %v", e.Source, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }
