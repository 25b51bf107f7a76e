package kinds

import (
	"context"
	"slices"
	"strings"

	"github.com/mesh-intelligence/relations/pkg/relationship"
	"github.com/mesh-intelligence/relations/pkg/types"
)

// TermSeparator joins a taxonomy handle and a term slug into a term handle.
const TermSeparator = "::"

// TermHandle returns the handle of the term slug in taxonomy.
func TermHandle(taxonomy, slug string) string {
	return taxonomy + TermSeparator + slug
}

// SplitTermHandle splits a term handle into taxonomy and slug. ok is false
// for identifiers that are not term handles.
func SplitTermHandle(handle string) (taxonomy, slug string, ok bool) {
	return strings.Cut(handle, TermSeparator)
}

// TermsDefinition relates fields to taxonomy terms. Term fields are
// taggable, so the widget lets authors type new terms, and selection can be
// scoped to taxonomies.
func TermsDefinition(store types.RecordStore) relationship.Definition {
	def := relationship.Base(Terms)
	def.FormComponent = "term-publish-form"
	def.Create = relationship.Delegated(types.KeyCreate, true)
	def.Edit = relationship.Delegated(types.KeyEdit, true)
	def.CanSearch = true
	def.Taggable = true
	def.ExtraConfigFields = []relationship.ConfigField{
		{Handle: KeyTaxonomies, Type: "taxonomies", Instructions: "Limit selection to these taxonomies"},
		{Handle: types.KeyCreate, Type: "toggle", Instructions: "Allow creating new terms"},
	}
	def.Columns = func(types.FieldConfig) []types.Column {
		return []types.Column{types.NewColumn("title"), types.NewColumn("slug")}
	}
	def.Creatables = func(cfg types.FieldConfig) []string {
		return cfg.Strings(KeyTaxonomies)
	}
	def.BaseParams = func(cfg types.FieldConfig) map[string]string {
		return scopeParams(cfg, KeyTaxonomies, ParamTaxonomies)
	}
	def.Resolver = func(cfg types.FieldConfig) types.IdentifierResolver {
		return &termResolver{StoreResolver{Store: store, Kind: Terms, Parents: cfg.Strings(KeyTaxonomies)}}
	}
	def.Index = storeIndex(store, Terms, KeyTaxonomies)
	return def
}

// termResolver rejects term handles from taxonomies outside the field's
// scope before asking the store.
type termResolver struct {
	StoreResolver
}

func (r *termResolver) Resolve(ctx context.Context, id types.Identifier) (types.Item, error) {
	if taxonomy, _, ok := SplitTermHandle(id); ok && len(r.Parents) > 0 {
		if !slices.Contains(r.Parents, taxonomy) {
			return types.InvalidItem(id), nil
		}
	}
	return r.StoreResolver.Resolve(ctx, id)
}
