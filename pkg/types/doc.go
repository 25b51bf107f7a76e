// Package types defines the identifier, record, and payload types shared by
// the relationship engine, the record store, and the transports around them,
// together with the standard error values.
package types
