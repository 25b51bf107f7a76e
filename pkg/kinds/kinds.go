package kinds

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/relations/pkg/relationship"
	"github.com/mesh-intelligence/relations/pkg/types"
)

// Relationship kind names, also used as the record kind in the store.
const (
	Entries = "entries"
	Terms   = "terms"
	Users   = "users"
)

// Configuration keys read by the stock kinds.
const (
	KeyCollections = "collections"
	KeyTaxonomies  = "taxonomies"
	KeyGroups      = "groups"
)

// Base listing parameter names reported to the widget.
const (
	ParamCollections = "collections"
	ParamTaxonomies  = "taxonomies"
	ParamGroups      = "groups"
)

// Definitions returns the stock kind definitions bound to store.
func Definitions(store types.RecordStore) []relationship.Definition {
	return []relationship.Definition{
		EntriesDefinition(store),
		TermsDefinition(store),
		UsersDefinition(store),
	}
}

// Fieldtypes builds a Fieldtype for every stock kind.
func Fieldtypes(store types.RecordStore, opts ...relationship.Option) ([]*relationship.Fieldtype, error) {
	defs := Definitions(store)
	out := make([]*relationship.Fieldtype, 0, len(defs))
	for _, def := range defs {
		ft, err := relationship.New(def, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, ft)
	}
	return out, nil
}

// NewRegistry returns a registry holding every stock kind.
func NewRegistry(store types.RecordStore, logger *slog.Logger, endpoints relationship.Endpoints) (*relationship.Registry, error) {
	fts, err := Fieldtypes(store,
		relationship.WithLogger(logger),
		relationship.WithEndpoints(endpoints),
	)
	if err != nil {
		return nil, err
	}
	return relationship.NewRegistry(fts...), nil
}

// scopeParams renders a configured parent list as one base parameter, or
// none when the field is unscoped.
func scopeParams(cfg types.FieldConfig, key, param string) map[string]string {
	parents := cfg.Strings(key)
	if len(parents) == 0 {
		return map[string]string{}
	}
	return map[string]string{param: strings.Join(parents, ",")}
}

// storeResolver returns a resolver for kind scoped by the parents configured
// under key.
func storeResolver(store types.RecordStore, kind, key string) func(types.FieldConfig) types.IdentifierResolver {
	return func(cfg types.FieldConfig) types.IdentifierResolver {
		return &StoreResolver{Store: store, Kind: kind, Parents: cfg.Strings(key)}
	}
}

// storeIndex returns a listing for kind scoped by the parents configured
// under key.
func storeIndex(store types.RecordStore, kind, key string) relationship.IndexFunc {
	return func(ctx context.Context, cfg types.FieldConfig, q types.ListQuery) (types.ListPage, error) {
		return scopedIndex(ctx, store, kind, cfg.Strings(key), q)
	}
}
