package kinds

import (
	"github.com/mesh-intelligence/relations/pkg/relationship"
	"github.com/mesh-intelligence/relations/pkg/types"
)

// UsersDefinition relates fields to user accounts. Accounts are never
// created from a relationship field; editing follows the field config.
func UsersDefinition(store types.RecordStore) relationship.Definition {
	def := relationship.Base(Users)
	def.ItemComponent = "related-user"
	def.Create = relationship.Fixed(false)
	def.Edit = relationship.Delegated(types.KeyEdit, true)
	def.CanSearch = true
	def.ExtraConfigFields = []relationship.ConfigField{
		{Handle: KeyGroups, Type: "user_groups", Instructions: "Limit selection to members of these groups"},
	}
	def.Columns = func(types.FieldConfig) []types.Column {
		return []types.Column{types.NewColumn("title"), types.NewColumn("email")}
	}
	def.BaseParams = func(cfg types.FieldConfig) map[string]string {
		return scopeParams(cfg, KeyGroups, ParamGroups)
	}
	def.Resolver = storeResolver(store, Users, KeyGroups)
	def.Index = storeIndex(store, Users, KeyGroups)
	return def
}
