package environment

import "errors"

// Error implements errors raised by an environment. Op names the
// operation that failed and Err is one of the package's error kinds.
type Error struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error kind
func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// ErrInvalidState is returned when an environment is stepped without
	// a valid preceding Reset
	ErrInvalidState = errors.New("environment needs to be reset")

	// ErrShapeMismatch is returned at construction when the transition or
	// reward table of a state does not agree with the action space
	ErrShapeMismatch = errors.New("transition table shape mismatch")

	// ErrInvalidAction is returned when an action lies outside of the
	// action space
	ErrInvalidAction = errors.New("action out of range")
)

// IsInvalidState returns whether or not an error reports that an
// environment was stepped before being reset.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsShapeMismatch returns whether or not an error reports that an MDP
// was constructed with a malformed transition or reward table.
func IsShapeMismatch(err error) bool {
	return errors.Is(err, ErrShapeMismatch)
}
