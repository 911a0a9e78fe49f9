package perform

import "fmt"

// ConfigurationError reports malformed or empty holdings or weights input
// for one entity. It is the only terminal failure class of the engine:
// the entity is aborted, gaps of every other kind are recorded and
// processing continues.
type ConfigurationError struct {
	Entity string // the entity whose input is broken
	Reason string
	Err    error // optional underlying cause
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entity %q: %s: %v", e.Entity, e.Reason, e.Err)
	}
	return fmt.Sprintf("entity %q: %s", e.Entity, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// configErrf builds a ConfigurationError with a formatted reason.
func configErrf(entity, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Entity: entity, Reason: fmt.Sprintf(format, args...)}
}
