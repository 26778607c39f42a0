package effects

import "errors"

var (
	// ErrUnknownEffect is returned when an id names no catalog entry.
	ErrUnknownEffect = errors.New("unknown effect")
	// ErrUnknownParam is returned when a value names a param the effect does not declare.
	ErrUnknownParam = errors.New("unknown param")
	// ErrIncomplete is returned when a value set lacks declared params.
	ErrIncomplete = errors.New("incomplete param values")
)

// ValidationError is a human-readable message that blocks submission. Its
// Error method returns the message unchanged so it can be shown directly.
type ValidationError struct {
	Effect  ID
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
