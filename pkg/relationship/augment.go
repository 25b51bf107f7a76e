package relationship

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// Augmenter resolves identifiers into Items through an IdentifierResolver.
type Augmenter struct {
	resolver types.IdentifierResolver
	logger   *slog.Logger
}

// NewAugmenter returns an Augmenter backed by resolver. A nil logger
// discards output.
func NewAugmenter(resolver types.IdentifierResolver, logger *slog.Logger) *Augmenter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Augmenter{resolver: resolver, logger: logger}
}

// Augment resolves each element of values and returns exactly one Item per
// element, in input order. Elements that are already Items or Records pass
// through unchanged, so augmenting an augmented sequence is a no-op. An
// identifier without a live record becomes an invalid Item; only resolver
// failures are returned as errors.
func (a *Augmenter) Augment(ctx context.Context, values any) ([]types.Item, error) {
	elems := elementsOf(values)
	items := make([]types.Item, 0, len(elems))
	for i, elem := range elems {
		switch v := elem.(type) {
		case types.Item:
			items = append(items, v)
			continue
		case types.Record:
			items = append(items, types.LiveItem(v))
			continue
		}

		id := identifierOf(elem)
		item, err := a.resolver.Resolve(ctx, id)
		if err != nil {
			a.logger.ErrorContext(ctx, "resolve identifier", "id", id, "position", i, "error", err)
			return nil, fmt.Errorf("resolving %q: %w", id, err)
		}
		if item.Invalid || item.Record == nil {
			item = types.Item{Ref: item.Ref, Invalid: true}
			if item.Ref == "" {
				item.Ref = id
			}
			a.logger.DebugContext(ctx, "invalid reference", "id", id, "position", i)
		}
		items = append(items, item)
	}
	return items, nil
}

// DisplayRows maps Items to widget rows, one per Item and in order. Published
// is populated only when statusIcons is set.
func DisplayRows(items []types.Item, statusIcons bool) []types.DisplayRow {
	rows := make([]types.DisplayRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, displayRow(item, statusIcons))
	}
	return rows
}

// IndexRows maps Items to listing column rows, one per Item and in order.
func IndexRows(items []types.Item, statusIcons bool) []types.IndexRow {
	rows := make([]types.IndexRow, 0, len(items))
	for _, item := range items {
		row := displayRow(item, statusIcons)
		rows = append(rows, types.IndexRow{
			ID:        row.ID,
			Title:     row.Title,
			EditURL:   row.EditURL,
			Published: row.Published,
			Invalid:   row.Invalid,
		})
	}
	return rows
}

func displayRow(item types.Item, statusIcons bool) types.DisplayRow {
	if item.Invalid || item.Record == nil {
		return types.InvalidRow(item.Ref)
	}
	r := item.Record
	row := types.DisplayRow{
		ID:      recordID(r),
		Title:   recordTitle(r),
		EditURL: r.EditURL(),
	}
	if statusIcons {
		published := r.Published()
		row.Published = &published
	}
	return row
}

// recordID prefers the primary identifier and falls back to the handle.
func recordID(r types.Record) string {
	if v, ok := r.(types.IDer); ok {
		if id := v.ID(); id != "" {
			return id
		}
	}
	if v, ok := r.(types.Handler); ok {
		if h := v.Handle(); h != "" {
			return h
		}
	}
	return cast.ToString(r.Get("id"))
}

// recordTitle prefers the title accessor and falls back to the raw title.
func recordTitle(r types.Record) string {
	if v, ok := r.(types.Titler); ok {
		return v.Title()
	}
	return cast.ToString(r.Get("title"))
}

// elementsOf flattens values into its elements without converting them, so
// Items and Records survive for pass-through.
func elementsOf(values any) []any {
	switch v := values.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []types.Item:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case types.Item, types.Record, string:
		return []any{v}
	}

	rv := reflect.ValueOf(values)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{values}
}
