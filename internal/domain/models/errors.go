package models

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable covers network failures, timeouts, malformed payloads and empty series.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrDivisionUndefined is returned when a computation would divide by zero.
	ErrDivisionUndefined = errors.New("division undefined")
	// ErrConfiguration marks programmer errors such as requesting an unregistered signal.
	ErrConfiguration = errors.New("configuration error")
)

// ConfigurationError is the only error category that leaves the core.
type ConfigurationError struct {
	Signal string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Signal == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: signal %q: %s", e.Signal, e.Reason)
}

// Is lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// UnknownSignal builds the error returned for unregistered names.
func UnknownSignal(name string) *ConfigurationError {
	return &ConfigurationError{Signal: name, Reason: "not registered"}
}

// Unavailable wraps a source failure so errors.Is(err, ErrSourceUnavailable) holds.
func Unavailable(source string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", source, ErrSourceUnavailable)
	}
	return fmt.Errorf("%s: %w: %v", source, ErrSourceUnavailable, err)
}
