package provider

import (
	"errors"
	"fmt"
)

// Error kinds shared by adapters, the orchestrator and the store.
// Callers classify with errors.Is; wrapping keeps the upstream detail.
var (
	// ErrTransient covers network failures, timeouts and non-success statuses.
	ErrTransient = errors.New("transient upstream error")
	// ErrParse covers unexpected response shapes and decode failures.
	ErrParse = errors.New("parse error")
	// ErrConfig covers missing or invalid adapter-specific configuration.
	ErrConfig = errors.New("configuration error")
	// ErrStoreCorrupt marks an unreadable persisted store.
	ErrStoreCorrupt = errors.New("store corrupt")
)

// Transientf wraps a transient upstream failure.
func Transientf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTransient, fmt.Sprintf(format, args...))
}

// Parsef wraps a response decoding failure.
func Parsef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

// Configf wraps a configuration failure.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// Kind returns a short label for logging.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrTransient):
		return "transient"
	case errors.Is(err, ErrStoreCorrupt):
		return "store_corrupt"
	default:
		return "unknown"
	}
}
