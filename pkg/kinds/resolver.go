// Package kinds provides the stock relationship kinds (entries, terms, users)
// on top of a types.RecordStore.
package kinds

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// StoreResolver resolves identifiers of one record kind against a record
// store. When Parents is non-empty, records outside those parents resolve as
// invalid references.
type StoreResolver struct {
	Store   types.RecordStore
	Kind    string
	Parents []string
}

var _ types.IdentifierResolver = (*StoreResolver)(nil)

// Resolve implements types.IdentifierResolver.
func (r *StoreResolver) Resolve(ctx context.Context, id types.Identifier) (types.Item, error) {
	if id == "" {
		return types.InvalidItem(id), nil
	}
	rec, err := r.Store.Get(ctx, r.Kind, id)
	if errors.Is(err, types.ErrNotFound) {
		return types.InvalidItem(id), nil
	}
	if err != nil {
		return types.Item{}, fmt.Errorf("get %s %q: %w", r.Kind, id, err)
	}
	if len(r.Parents) > 0 {
		parent, _ := rec.Get("parent").(string)
		if !slices.Contains(r.Parents, parent) {
			return types.InvalidItem(id), nil
		}
	}
	return types.LiveItem(rec), nil
}

// scopedIndex lists records of kind, restricted to parents when set.
func scopedIndex(ctx context.Context, store types.RecordStore, kind string, parents []string, q types.ListQuery) (types.ListPage, error) {
	params := make(map[string]string, len(q.Params)+1)
	for k, v := range q.Params {
		params[k] = v
	}
	delete(params, types.ParamParent)
	if len(parents) > 0 {
		params[types.ParamParent] = strings.Join(parents, ",")
	}
	q.Params = params
	return store.List(ctx, kind, q)
}
