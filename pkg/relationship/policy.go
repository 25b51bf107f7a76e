package relationship

import (
	"fmt"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// Policy decides one boolean capability. It is either fixed by the
// relationship kind or delegated to a key of the field configuration with a
// default for when the key is unset. The zero Policy is Fixed(false).
type Policy struct {
	delegated bool
	value     bool   // fixed value, or default when delegated
	key       string // configuration key when delegated
}

// Fixed returns a policy that always yields v and ignores configuration.
func Fixed(v bool) Policy {
	return Policy{value: v}
}

// Delegated returns a policy that reads key from the field configuration and
// yields def when the key is unset.
func Delegated(key string, def bool) Policy {
	return Policy{delegated: true, key: key, value: def}
}

// Resolve evaluates the policy against cfg.
func (p Policy) Resolve(cfg types.FieldConfig) bool {
	if !p.delegated {
		return p.value
	}
	return cfg.Bool(p.key, p.value)
}

// IsFixed reports whether the policy ignores configuration.
func (p Policy) IsFixed() bool { return !p.delegated }

// Key returns the configuration key of a delegated policy.
func (p Policy) Key() string { return p.key }

func (p Policy) String() string {
	if p.delegated {
		return fmt.Sprintf("delegated(%s, default %t)", p.key, p.value)
	}
	return fmt.Sprintf("fixed(%t)", p.value)
}

// conflicts reports whether cfg tries to switch on a capability that the
// policy hard-disables through key.
func (p Policy) conflicts(cfg types.FieldConfig, key string) bool {
	if p.delegated || p.value {
		return false
	}
	return cfg.Has(key) && cfg.Bool(key, false)
}
