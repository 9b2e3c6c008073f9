package gist

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches a missing gist or a missing file inside a gist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized matches a 401 from the API, usually a missing or bad token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrParse matches document content that is not valid JSON.
	ErrParse = errors.New("invalid document content")
)

// HTTPError is a non-2xx response from the API or a raw content URL
type HTTPError struct {
	Op         string
	StatusCode int
	Status     string
	Message    string
	Err        error
}

func (e *HTTPError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	if e.Message != "" {
		return fmt.Sprintf("failed to %s: %s: %s", e.Op, status, e.Message)
	}

	return fmt.Sprintf("failed to %s: %s", e.Op, status)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}

	return false
}

// NotFoundError indicates the gist exists but has no file with the given name
type NotFoundError struct {
	GistID string
	File   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %q not found in gist %s", e.File, e.GistID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ParseError indicates a file's content is not valid JSON
type ParseError struct {
	GistID string
	File   string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s in gist %s: %v", e.File, e.GistID, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
