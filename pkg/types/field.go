package types

import (
	"github.com/spf13/cast"
)

// Selection modes for the widget.
const (
	ModeDefault   = "default"
	ModeSelect    = "select"
	ModeTypeahead = "typeahead"
)

// validModes is the set of recognized selection modes.
var validModes = map[string]bool{
	ModeDefault:   true,
	ModeSelect:    true,
	ModeTypeahead: true,
}

// Well-known FieldConfig keys.
const (
	KeyMaxItems = "max_items"
	KeyMode     = "mode"
	KeyCreate   = "create"
	KeyEdit     = "edit"
)

// FieldConfig is the read-only configuration of one field instance. Values
// come from YAML or JSON and are loosely typed; accessors coerce them.
type FieldConfig map[string]any

// Has reports whether key is explicitly set.
func (c FieldConfig) Has(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c[key]
	return ok
}

// Get returns the raw value for key, or nil.
func (c FieldConfig) Get(key string) any {
	if c == nil {
		return nil
	}
	return c[key]
}

// Bool returns key coerced to bool, or def when unset or not coercible.
func (c FieldConfig) Bool(key string, def bool) bool {
	v, ok := c[key]
	if !ok || v == nil {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// String returns key coerced to string, or def when unset.
func (c FieldConfig) String(key, def string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// Strings returns key coerced to a string slice. A scalar becomes a
// one-element slice.
func (c FieldConfig) Strings(key string) []string {
	v, ok := c[key]
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		return []string{s}
	}
	return cast.ToStringSlice(v)
}

// MaxItems returns the configured max_items, or 0 when unset or malformed.
// A value of 1 means single-select.
func (c FieldConfig) MaxItems() int {
	v, ok := c[KeyMaxItems]
	if !ok || v == nil {
		return 0
	}
	n, err := cast.ToIntE(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Mode returns the selection mode, defaulting to ModeDefault.
func (c FieldConfig) Mode() string {
	return c.String(KeyMode, ModeDefault)
}

// ValidMode reports whether mode is a recognized selection mode.
func ValidMode(mode string) bool {
	return validModes[mode]
}

// Field is one configured relationship field instance: its handle, the
// relationship kind it uses, its configuration, and its current stored value.
type Field struct {
	Handle string      `json:"handle" yaml:"handle"`
	Type   string      `json:"type" yaml:"type"`
	Config FieldConfig `json:"config" yaml:"config"`
	Value  any         `json:"value" yaml:"value"`
}
