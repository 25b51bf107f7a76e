package types

import (
	"context"
	"time"
)

// Record is a live record handle returned by a resolver. The identity and
// title accessors are optional capabilities (IDer, Handler, Titler); callers
// type-assert for them and fall back to Get when absent.
type Record interface {
	EditURL() string
	Published() bool
	Get(key string) any
}

// IDer is implemented by records that carry a primary identifier.
type IDer interface {
	ID() string
}

// Handler is implemented by records addressed by a handle instead of, or in
// addition to, a primary identifier.
type Handler interface {
	Handle() string
}

// Titler is implemented by records with a dedicated title accessor.
type Titler interface {
	Title() string
}

// Item is the outcome of resolving one identifier: either a live Record or an
// invalid reference that keeps the original identifier.
type Item struct {
	Record  Record
	Ref     Identifier
	Invalid bool
}

// LiveItem wraps a resolved record.
func LiveItem(r Record) Item {
	return Item{Record: r}
}

// InvalidItem marks id as a reference with no matching live record.
func InvalidItem(id Identifier) Item {
	return Item{Ref: id, Invalid: true}
}

// IdentifierResolver maps one identifier to an Item. A missing record is an
// expected outcome and is reported as InvalidItem with a nil error; errors are
// reserved for failures of the backing store.
type IdentifierResolver interface {
	Resolve(ctx context.Context, id Identifier) (Item, error)
}

// ResolverFunc adapts a function to IdentifierResolver.
type ResolverFunc func(ctx context.Context, id Identifier) (Item, error)

// Resolve implements IdentifierResolver.
func (f ResolverFunc) Resolve(ctx context.Context, id Identifier) (Item, error) {
	return f(ctx, id)
}

// Entry is the record shape persisted by the bundled record store. Kind names
// the record kind (entries, terms, users); Parent scopes a record to its
// collection, taxonomy, or group.
type Entry struct {
	RecordID     string         `json:"record_id"`
	Kind         string         `json:"kind"`
	RecordHandle string         `json:"handle"`
	RecordTitle  string         `json:"title"`
	Slug         string         `json:"slug"`
	Parent       string         `json:"parent"`
	IsPublished  bool           `json:"published"`
	URL          string         `json:"edit_url"`
	Data         map[string]any `json:"data"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Compile-time capability checks.
var (
	_ Record  = (*Entry)(nil)
	_ IDer    = (*Entry)(nil)
	_ Handler = (*Entry)(nil)
	_ Titler  = (*Entry)(nil)
)

func (e *Entry) ID() string      { return e.RecordID }
func (e *Entry) Handle() string  { return e.RecordHandle }
func (e *Entry) Title() string   { return e.RecordTitle }
func (e *Entry) EditURL() string { return e.URL }
func (e *Entry) Published() bool { return e.IsPublished }

// Get returns a named attribute. Built-in columns take precedence over Data.
func (e *Entry) Get(key string) any {
	switch key {
	case "id":
		return e.RecordID
	case "kind":
		return e.Kind
	case "handle":
		return e.RecordHandle
	case "title":
		return e.RecordTitle
	case "slug":
		return e.Slug
	case "parent":
		return e.Parent
	case "published":
		return e.IsPublished
	case "edit_url":
		return e.URL
	}
	if e.Data == nil {
		return nil
	}
	return e.Data[key]
}
