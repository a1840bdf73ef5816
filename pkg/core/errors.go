package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingParameter is matched by ParameterErrors for absent required keys
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrInvalidParameter is matched by ParameterErrors for malformed values
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ParameterError is a configuration error raised while constructing a plugin
type ParameterError struct {
	Component string // plugin kind or type, filled in by the factory when empty
	Key       string
	Reason    string
	kind      error
}

func (e *ParameterError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("parameter %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("%s: parameter %q: %s", e.Component, e.Key, e.Reason)
}

// Unwrap exposes the sentinel so errors.Is works
func (e *ParameterError) Unwrap() error {
	return e.kind
}

func invalidParameter(component, key, reason string) *ParameterError {
	return &ParameterError{Component: component, Key: key, Reason: reason, kind: ErrInvalidParameter}
}

func missingParameter(key string) *ParameterError {
	return &ParameterError{Key: key, Reason: "is required", kind: ErrMissingParameter}
}

func wrongType(key, expected string, got any) *ParameterError {
	return invalidParameter("", key, fmt.Sprintf("expected %s, got %T", expected, got))
}

// InvalidParameter reports a value that failed plugin validation
func InvalidParameter(component, key, reason string) error {
	return invalidParameter(component, key, reason)
}
