package settings

import (
	"errors"
	"fmt"
)

// ErrNoSettingsGist is returned when no settings document has been created
// or imported yet.
var ErrNoSettingsGist = errors.New("no settings gist configured")

// ParseError indicates an exported settings file could not be read
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid settings file %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
