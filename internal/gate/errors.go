package gate

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when a username or password is empty.
	ErrValidation = errors.New("username and password are required")

	// ErrNotSetup is returned when no credential record exists.
	ErrNotSetup = errors.New("credentials have not been set up")

	// ErrInvalidCredentials is returned when the username or password does not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// StateError indicates an operation needs a state the gate is not in
type StateError struct {
	Want State
	Got  State
}

func (e *StateError) Error() string {
	switch e.Got {
	case NeedsSetup:
		return "no credentials configured: run 'gistvault auth setup' first"
	case NeedsLogin:
		return "not logged in: run 'gistvault auth login' first"
	}

	return fmt.Sprintf("gate is %s, expected %s", e.Got, e.Want)
}

// Unwrap lets callers match NeedsSetup with ErrNotSetup.
func (e *StateError) Unwrap() error {
	if e.Got == NeedsSetup {
		return ErrNotSetup
	}

	return nil
}
