package backstack

import (
	"errors"
	"fmt"
)

// ErrAlreadyInitialized is returned by Init when the process-wide manager
// exists already. Call Close first to start over.
var ErrAlreadyInitialized = errors.New("backstack: already initialized")

var errHostCannotGoBack = errors.New("history host has no Back method for the hardware back button")

// ConfigError reports an options file that could not be used.
type ConfigError struct {
	Path string // file the options were read from; empty for in-memory data
	Err  error  // underlying error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("backstack: config: %v", e.Err)
	}
	return fmt.Sprintf("backstack: config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError checks if an error came from loading options.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
