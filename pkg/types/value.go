package types

// Identifier is an opaque key referencing a record in an external store.
// Equality is exact-match; no case or whitespace folding is applied.
type Identifier = string

// CanonicalValue is the working shape of a relationship field: an ordered
// sequence of identifiers. Order is selection order and duplicates are kept.
type CanonicalValue []Identifier

// Strings returns the identifiers as a plain string slice.
func (c CanonicalValue) Strings() []string {
	out := make([]string, len(c))
	copy(out, c)
	return out
}

// First returns the first identifier and whether one exists.
func (c CanonicalValue) First() (Identifier, bool) {
	if len(c) == 0 {
		return "", false
	}
	return c[0], true
}
