package relationship

import (
	"maps"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// Capabilities is the resolved policy matrix of one field instance.
type Capabilities struct {
	CanCreate          bool
	CanEdit            bool
	CanSearch          bool
	StatusIcons        bool
	Taggable           bool
	Columns            []types.Column
	ItemComponent      string
	FormComponent      string
	FormComponentProps types.FormProps
	Creatables         []string
}

// ResolvePolicies evaluates def against cfg once. Create and edit follow their
// policies; search, status icons, and taggable are fixed by the kind.
func ResolvePolicies(def Definition, cfg types.FieldConfig) Capabilities {
	props := make(types.FormProps, len(def.FormProps))
	maps.Copy(props, def.FormProps)

	return Capabilities{
		CanCreate:          def.Create.Resolve(cfg),
		CanEdit:            def.Edit.Resolve(cfg),
		CanSearch:          def.CanSearch,
		StatusIcons:        def.StatusIcons,
		Taggable:           def.Taggable,
		Columns:            def.columns(cfg),
		ItemComponent:      def.ItemComponent,
		FormComponent:      def.FormComponent,
		FormComponentProps: props,
		Creatables:         def.creatables(cfg),
	}
}
