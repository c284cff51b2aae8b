package schema

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every ConfigurationError.
var ErrConfiguration = errors.New("invalid scorer configuration")

// ConfigurationError reports static configuration rejected while a scorer is built.
// It is never produced by a comparison.
type ConfigurationError struct {
	Component string // What was being built, e.g. "member age" or "sequence window"
	Reason    string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Component, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) hold.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError builds a ConfigurationError with a formatted reason.
func NewConfigurationError(component, format string, args ...any) error {
	return &ConfigurationError{Component: component, Reason: fmt.Sprintf(format, args...)}
}
