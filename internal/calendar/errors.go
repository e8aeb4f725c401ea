package calendar

import (
	"errors"
	"fmt"

	"github.com/tartampluch/go-weekcalendar/internal/config"
)

// Error kinds surfaced by the calendar core. Callers match them with errors.Is.
var (
	ErrInvalidDate   = errors.New(config.ErrInvalidDate)
	ErrInvalidYear   = errors.New(config.ErrInvalidYear)
	ErrInvalidConfig = errors.New(config.ErrInvalidConfig)
)

// ConfigError reports a malformed annotation entry together with the
// section and key it was found under, so the operator can fix the file.
type ConfigError struct {
	Section string
	Key     string
	Err     error
}

// NewConfigError wraps err with the location of the offending entry.
func NewConfigError(section, key string, err error) *ConfigError {
	return &ConfigError{Section: section, Key: key, Err: err}
}

func (e *ConfigError) Error() string {
	switch {
	case e.Section == "":
		return fmt.Sprintf("%s: %v", config.ErrInvalidConfig, e.Err)
	case e.Key == "":
		return fmt.Sprintf("%s: %s: %v", config.ErrInvalidConfig, e.Section, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %q: %v", config.ErrInvalidConfig, e.Section, e.Key, e.Err)
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is makes every ConfigError match ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
