package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound covers absent, expired, and already-deleted links alike;
	// visitors cannot distinguish the three.
	ErrNotFound = errors.New("link not found")
	// ErrConflict signals a custom code that is already taken. Custom codes
	// are never auto-retried.
	ErrConflict = errors.New("short code already taken")
	// ErrExhausted signals that code generation could not find a free code
	// within the attempt bound. This is an operational alarm (code space too
	// small), not a user input error.
	ErrExhausted = errors.New("short code space exhausted")
	// ErrNotOwner signals that the acting identity does not own the link.
	ErrNotOwner = errors.New("not the link owner")
)

// ValidationError reports which input fields failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields, ", "))
}

// AsValidation extracts a ValidationError from err, if present.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
