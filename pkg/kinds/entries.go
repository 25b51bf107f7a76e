package kinds

import (
	"github.com/mesh-intelligence/relations/pkg/relationship"
	"github.com/mesh-intelligence/relations/pkg/types"
)

// EntriesDefinition relates fields to content entries. Fields may create and
// edit entries unless their configuration switches that off, entries show
// their publish status, and selection can be scoped to collections.
func EntriesDefinition(store types.RecordStore) relationship.Definition {
	def := relationship.Base(Entries)
	def.FormComponent = "entry-publish-form"
	def.Create = relationship.Delegated(types.KeyCreate, true)
	def.Edit = relationship.Delegated(types.KeyEdit, true)
	def.CanSearch = true
	def.StatusIcons = true
	def.ExtraConfigFields = []relationship.ConfigField{
		{Handle: KeyCollections, Type: "collections", Instructions: "Limit selection to these collections"},
		{Handle: types.KeyCreate, Type: "toggle", Instructions: "Allow creating new entries"},
		{Handle: types.KeyEdit, Type: "toggle", Instructions: "Allow editing selected entries"},
	}
	def.Columns = func(types.FieldConfig) []types.Column {
		url := types.NewColumn("url")
		url.Label = "URL"
		return []types.Column{types.NewColumn("title"), url}
	}
	def.Creatables = func(cfg types.FieldConfig) []string {
		return cfg.Strings(KeyCollections)
	}
	def.BaseParams = func(cfg types.FieldConfig) map[string]string {
		return scopeParams(cfg, KeyCollections, ParamCollections)
	}
	def.CreateItemURL = func(cfg types.FieldConfig) string {
		collections := cfg.Strings(KeyCollections)
		if len(collections) == 0 {
			return ""
		}
		return "/collections/" + collections[0] + "/entries/create"
	}
	def.Resolver = storeResolver(store, Entries, KeyCollections)
	def.Index = storeIndex(store, Entries, KeyCollections)
	return def
}
