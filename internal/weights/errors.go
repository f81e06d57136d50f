package weights

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrMissingOrCorruptRecord = errors.New("missing or corrupt record")
	ErrTrailingData           = errors.New("container has data after the last expected record")
	ErrDuplicateName          = errors.New("duplicate parameter name")
	ErrEmptyOrder             = errors.New("parameter order is empty")
)

// RecordError reports which record of the container failed to decode.
// It matches ErrMissingOrCorruptRecord and unwraps to the decode error.
type RecordError struct {
	Index int    // Position in the parameter order
	Name  string // Parameter name expected at that position
	Err   error  // Underlying decode error
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: record %d (%q): %v", ErrMissingOrCorruptRecord, e.Index, e.Name, e.Err)
}

// Unwrap returns the decode error.
func (e *RecordError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMissingOrCorruptRecord.
func (e *RecordError) Is(target error) bool {
	return target == ErrMissingOrCorruptRecord
}
