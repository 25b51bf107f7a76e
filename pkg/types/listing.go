package types

import (
	"context"
	"net/url"
	"strconv"
)

// Sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Listing request parameter names.
const (
	ParamSort    = "sort"
	ParamOrder   = "order"
	ParamSearch  = "search"
	ParamPage    = "page"
	ParamPerPage = "per_page"
)

// ParamParent restricts a store listing to records whose parent is one of
// the comma-separated values.
const ParamParent = "parent"

// Default pagination applied by the record store when a request omits it.
const (
	DefaultPerPage = 25
	MaxPerPage     = 100
)

// IndexRequest is an inbound listing request from the selection widget.
// Params holds the raw query parameters; every accessor tolerates absence.
type IndexRequest struct {
	Params url.Values
}

// NewIndexRequest wraps query parameters.
func NewIndexRequest(params url.Values) IndexRequest {
	if params == nil {
		params = url.Values{}
	}
	return IndexRequest{Params: params}
}

// Get returns the first value for key, or "" when absent.
func (r IndexRequest) Get(key string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params.Get(key)
}

// Int returns key parsed as a non-negative int, or def.
func (r IndexRequest) Int(key string, def int) int {
	v := r.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// ListQuery is the translated listing query passed to the record store.
// Params are fixed scoping parameters contributed by the relationship kind.
type ListQuery struct {
	Sort      string
	Direction string
	Search    string
	Page      int
	PerPage   int
	Params    map[string]string
}

// Offset returns the zero-based row offset for the query's page.
func (q ListQuery) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit()
}

// Limit returns PerPage clamped to [1, MaxPerPage], DefaultPerPage when unset.
func (q ListQuery) Limit() int {
	switch {
	case q.PerPage <= 0:
		return DefaultPerPage
	case q.PerPage > MaxPerPage:
		return MaxPerPage
	default:
		return q.PerPage
	}
}

// ListPage is one page of listing results.
type ListPage struct {
	Items []Record
	Total int
}

// RecordStore is the external record store the relationship kinds read from.
// Get returns ErrNotFound when no record of kind has the given id or handle.
type RecordStore interface {
	Get(ctx context.Context, kind, id string) (Record, error)
	List(ctx context.Context, kind string, q ListQuery) (ListPage, error)
}

// Store is a RecordStore with a lifecycle and write access. Callers attach
// to a backend, read and write records, and detach when done.
type Store interface {
	RecordStore

	// Attach connects the store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error

	// Set creates or updates a record; an empty RecordID creates a new one.
	Set(ctx context.Context, e *Entry) (string, error)

	// Delete removes a record. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, kind, id string) error
}
