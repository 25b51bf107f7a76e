package types

import (
	"errors"
	"fmt"
)

// Record store errors.
var (
	ErrStoreDetached   = errors.New("record store is detached")
	ErrAlreadyAttached = errors.New("record store is already attached")
	ErrNotFound        = errors.New("record not found")
	ErrInvalidID       = errors.New("invalid record ID")
	ErrInvalidKind     = errors.New("invalid record kind")
	ErrInvalidData     = errors.New("invalid record data")
)

// Field definition errors. These are reported when a field is registered,
// never while a payload is being built.
var (
	ErrConflictingPolicy = errors.New("conflicting capability policy")
	ErrUnknownMode       = errors.New("unknown selection mode")
	ErrInvalidMaxItems   = errors.New("max_items must be a positive integer")
	ErrUnknownKind       = errors.New("unknown relationship kind")
	ErrFieldNotFound     = errors.New("field not found")
	ErrDuplicateField    = errors.New("field already registered")
	ErrMissingResolver   = errors.New("relationship kind has no resolver")
	ErrMissingIndex      = errors.New("relationship kind has no index listing")
)

// Submitted value errors.
var (
	ErrNotSequence = errors.New("value must be a sequence")
	ErrTooMany     = errors.New("too many items selected")
)

// ConfigError reports a contradictory or malformed field definition.
// It unwraps to one of the field definition errors above.
type ConfigError struct {
	Field string // Field handle, empty for kind-level problems.
	Key   string // Offending configuration key.
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("field %s: %s: %v", e.Field, e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ValidationError reports a rule violation on a submitted value.
// Rule is the failing entry of the rule list (for example "max:3").
type ValidationError struct {
	Rule string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.Rule, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
