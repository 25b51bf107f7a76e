package relationship

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// Default component identifiers understood by the selection widget.
const (
	DefaultComponent      = "relationship"
	DefaultIndexComponent = "relationship"
	DefaultItemComponent  = "related-item"
	DefaultCategory       = "relationship"
)

// ConfigOption is one choice of a radio or select configuration field.
type ConfigOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// ConfigField describes one configuration key a field of this kind accepts.
type ConfigField struct {
	Handle       string         `json:"handle" yaml:"handle"`
	Type         string         `json:"type" yaml:"type"`
	Instructions string         `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Options      []ConfigOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// baseConfigFields are accepted by every relationship kind.
var baseConfigFields = []ConfigField{
	{
		Handle:       types.KeyMaxItems,
		Type:         "integer",
		Instructions: "Set a maximum number of selectable items",
	},
	{
		Handle: types.KeyMode,
		Type:   "radio",
		Options: []ConfigOption{
			{Value: types.ModeDefault, Label: "Default (Drag and drop UI with item selector in a stack)"},
			{Value: types.ModeSelect, Label: "Select (A dropdown field with prepopulated options)"},
			{Value: types.ModeTypeahead, Label: "Typeahead (A dropdown field with options requested as you type)"},
		},
	},
}

// IndexFunc lists candidate records for the selection widget.
type IndexFunc func(ctx context.Context, cfg types.FieldConfig, q types.ListQuery) (types.ListPage, error)

// Definition declares how one relationship kind behaves. Start from Base and
// override only what differs; unset hooks fall back to the defaults
// documented on each field.
type Definition struct {
	Kind           string
	Component      string
	IndexComponent string
	ItemComponent  string
	FormComponent  string // empty serializes as null
	Categories     []string

	Create      Policy
	Edit        Policy
	CanSearch   bool
	StatusIcons bool
	Taggable    bool

	FormProps         types.FormProps
	ExtraConfigFields []ConfigField

	// Columns defaults to a single title column.
	Columns func(cfg types.FieldConfig) []types.Column
	// Creatables defaults to none.
	Creatables func(cfg types.FieldConfig) []string
	// BaseParams are fixed listing parameters, default none.
	BaseParams func(cfg types.FieldConfig) map[string]string
	// CreateItemURL defaults to "".
	CreateItemURL func(cfg types.FieldConfig) string

	// Resolver is required; it may scope resolution by the field config.
	Resolver func(cfg types.FieldConfig) types.IdentifierResolver
	// Index is required.
	Index IndexFunc
}

// Base returns the default definition for kind: every capability off, a
// title column, and the stock component identifiers.
func Base(kind string) Definition {
	return Definition{
		Kind:           kind,
		Component:      DefaultComponent,
		IndexComponent: DefaultIndexComponent,
		ItemComponent:  DefaultItemComponent,
		Categories:     []string{DefaultCategory},
		Create:         Fixed(false),
		Edit:           Fixed(false),
	}
}

// Validate checks the definition itself, independent of any field.
func (d Definition) Validate() error {
	var result *multierror.Error
	if d.Kind == "" {
		result = multierror.Append(result, &types.ConfigError{Key: "kind", Err: types.ErrUnknownKind})
	}
	if d.Resolver == nil {
		result = multierror.Append(result, &types.ConfigError{Key: d.Kind + ".resolver", Err: types.ErrMissingResolver})
	}
	if d.Index == nil {
		result = multierror.Append(result, &types.ConfigError{Key: d.Kind + ".index", Err: types.ErrMissingIndex})
	}
	return result.ErrorOrNil()
}

// ConfigFieldItems returns the configuration keys accepted by fields of this
// kind: max_items and mode first, then the kind's extras.
func (d Definition) ConfigFieldItems() []ConfigField {
	items := make([]ConfigField, 0, len(baseConfigFields)+len(d.ExtraConfigFields))
	items = append(items, baseConfigFields...)
	items = append(items, d.ExtraConfigFields...)
	return items
}

func (d Definition) columns(cfg types.FieldConfig) []types.Column {
	if d.Columns == nil {
		return []types.Column{types.NewColumn("title")}
	}
	return d.Columns(cfg)
}

func (d Definition) creatables(cfg types.FieldConfig) []string {
	if d.Creatables == nil {
		return []string{}
	}
	if c := d.Creatables(cfg); c != nil {
		return c
	}
	return []string{}
}

func (d Definition) baseParams(cfg types.FieldConfig) map[string]string {
	if d.BaseParams == nil {
		return map[string]string{}
	}
	if p := d.BaseParams(cfg); p != nil {
		return p
	}
	return map[string]string{}
}

func (d Definition) createItemURL(cfg types.FieldConfig) string {
	if d.CreateItemURL == nil {
		return ""
	}
	return d.CreateItemURL(cfg)
}
