package relationship

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// Default endpoint paths, relative to wherever the HTTP surface is mounted.
const (
	DefaultItemDataURL       = "/relationship/data"
	DefaultBaseSelectionsURL = "/relationship/index"
)

// Endpoints are the URLs the widget calls after bootstrapping.
type Endpoints struct {
	ItemData       string // resolves identifiers to display rows
	BaseSelections string // listing query
}

// Option configures a Fieldtype.
type Option func(*Fieldtype)

// WithEndpoints sets the endpoint URLs reported in the preload payload.
func WithEndpoints(e Endpoints) Option {
	return func(f *Fieldtype) {
		f.endpoints = e
	}
}

// WithLogger attaches a logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fieldtype) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		f.logger = logger
	}
}

// Fieldtype implements the relationship field behavior for one kind. It is
// immutable after New and safe to share between requests.
type Fieldtype struct {
	def       Definition
	endpoints Endpoints
	logger    *slog.Logger
}

// New validates def and returns its Fieldtype.
func New(def Definition, opts ...Option) (*Fieldtype, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	f := &Fieldtype{
		def: def,
		endpoints: Endpoints{
			ItemData:       DefaultItemDataURL,
			BaseSelections: DefaultBaseSelectionsURL,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Kind returns the relationship kind name.
func (f *Fieldtype) Kind() string { return f.def.Kind }

// Definition returns a copy of the kind definition.
func (f *Fieldtype) Definition() Definition { return f.def }

// Endpoints returns the configured endpoint URLs.
func (f *Fieldtype) Endpoints() Endpoints { return f.endpoints }

// Preloadable reports that relationship fields ship a preload payload.
func (f *Fieldtype) Preloadable() bool { return true }

// ConfigFieldItems returns the configuration keys fields of this kind accept.
func (f *Fieldtype) ConfigFieldItems() []ConfigField { return f.def.ConfigFieldItems() }

// DefaultValue is the value of a field with no selection.
func (f *Fieldtype) DefaultValue() types.CanonicalValue { return types.CanonicalValue{} }

// CreateItemURL returns the URL of the inline create form, "" when none.
func (f *Fieldtype) CreateItemURL(cfg types.FieldConfig) string {
	return f.def.createItemURL(cfg)
}

// ValidateConfig checks one field's configuration against the kind. It
// reports every problem found, each as a *types.ConfigError.
func (f *Fieldtype) ValidateConfig(handle string, cfg types.FieldConfig) error {
	var result *multierror.Error
	if f.def.Create.conflicts(cfg, types.KeyCreate) {
		result = multierror.Append(result, &types.ConfigError{Field: handle, Key: types.KeyCreate, Err: types.ErrConflictingPolicy})
	}
	if f.def.Edit.conflicts(cfg, types.KeyEdit) {
		result = multierror.Append(result, &types.ConfigError{Field: handle, Key: types.KeyEdit, Err: types.ErrConflictingPolicy})
	}
	if cfg.Has(types.KeyMode) && !types.ValidMode(cfg.Mode()) {
		result = multierror.Append(result, &types.ConfigError{Field: handle, Key: types.KeyMode, Err: types.ErrUnknownMode})
	}
	if cfg.Has(types.KeyMaxItems) && cfg.Get(types.KeyMaxItems) != nil && cfg.MaxItems() < 1 {
		result = multierror.Append(result, &types.ConfigError{Field: handle, Key: types.KeyMaxItems, Err: types.ErrInvalidMaxItems})
	}
	return result.ErrorOrNil()
}

// PreProcess wraps a stored value into the canonical sequence for editing.
func (f *Fieldtype) PreProcess(data any) types.CanonicalValue {
	return ToCanonical(data)
}

// PreProcessConfig prepares a configured default value. It collapses to the
// first identifier for single-select fields, like Process.
func (f *Fieldtype) PreProcessConfig(cfg types.FieldConfig, data any) any {
	canonical := f.PreProcess(data)
	if cfg.MaxItems() == 1 {
		if first, ok := canonical.First(); ok {
			return first
		}
		return nil
	}
	return canonical
}

// Process converts a submitted value to its stored shape: nil when empty,
// the first identifier when max_items is 1, the sequence otherwise.
func (f *Fieldtype) Process(cfg types.FieldConfig, data any) any {
	return ToStored(ToCanonical(data), cfg.MaxItems())
}

// Rules returns the validation rules for a field: always "array", plus
// "max:N" when max_items is configured.
func (f *Fieldtype) Rules(cfg types.FieldConfig) []string {
	rules := []string{"array"}
	if limit := cfg.MaxItems(); limit > 0 {
		rules = append(rules, "max:"+strconv.Itoa(limit))
	}
	return rules
}

// Validate applies Rules to a submitted value. A nil value passes; a scalar
// fails "array"; a sequence longer than max_items fails "max:N".
func (f *Fieldtype) Validate(cfg types.FieldConfig, value any) error {
	if value == nil {
		return nil
	}
	if !isSequence(value) {
		return &types.ValidationError{Rule: "array", Err: types.ErrNotSequence}
	}
	if limit := cfg.MaxItems(); limit > 0 {
		if n := len(ToCanonical(value)); n > limit {
			return &types.ValidationError{
				Rule: "max:" + strconv.Itoa(limit),
				Err:  fmt.Errorf("%w: %d of at most %d", types.ErrTooMany, n, limit),
			}
		}
	}
	return nil
}

// Augment resolves values through the kind's resolver for cfg.
func (f *Fieldtype) Augment(ctx context.Context, cfg types.FieldConfig, values any) ([]types.Item, error) {
	return NewAugmenter(f.def.Resolver(cfg), f.logger).Augment(ctx, values)
}

// GetItemData returns one display row per identifier in values. The result
// is always a non-nil slice, also for single-select fields.
func (f *Fieldtype) GetItemData(ctx context.Context, cfg types.FieldConfig, values any) ([]types.DisplayRow, error) {
	items, err := f.Augment(ctx, cfg, ToCanonical(values))
	if err != nil {
		return nil, err
	}
	return DisplayRows(items, f.def.StatusIcons), nil
}

// PreProcessIndex renders a stored value for listing columns as
// {id, title, edit_url, published} rows.
func (f *Fieldtype) PreProcessIndex(ctx context.Context, cfg types.FieldConfig, data any) ([]types.IndexRow, error) {
	items, err := f.Augment(ctx, cfg, ToCanonical(data))
	if err != nil {
		return nil, err
	}
	return IndexRows(items, f.def.StatusIcons), nil
}

// IndexResult is one page of candidate records for the selection widget.
type IndexResult struct {
	Data    []types.DisplayRow `json:"data"`
	Total   int                `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
	Sort    string             `json:"sort,omitempty"`
	Order   string             `json:"order"`
}

// GetIndexItems lists candidate records for a field. Base scoping parameters
// of the kind are applied on top of the request.
func (f *Fieldtype) GetIndexItems(ctx context.Context, cfg types.FieldConfig, req types.IndexRequest) (IndexResult, error) {
	q := Translate(req, f.def.baseParams(cfg))
	page, err := f.def.Index(ctx, cfg, q)
	if err != nil {
		f.logger.ErrorContext(ctx, "list candidates", "kind", f.def.Kind, "error", err)
		return IndexResult{}, fmt.Errorf("listing %s: %w", f.def.Kind, err)
	}

	items := make([]types.Item, 0, len(page.Items))
	for _, r := range page.Items {
		items = append(items, types.LiveItem(r))
	}
	return IndexResult{
		Data:    DisplayRows(items, f.def.StatusIcons),
		Total:   page.Total,
		Page:    max(q.Page, 1),
		PerPage: q.Limit(),
		Sort:    q.Sort,
		Order:   q.Direction,
	}, nil
}

// Preload builds the widget bootstrap payload for field. Any failure aborts
// the build; no partial payload is returned.
func (f *Fieldtype) Preload(ctx context.Context, field types.Field) (types.PreloadPayload, error) {
	canonical := ToCanonical(field.Value)

	data, err := f.GetItemData(ctx, field.Config, canonical)
	if err != nil {
		return types.PreloadPayload{}, fmt.Errorf("preload %s: %w", field.Handle, err)
	}

	caps := ResolvePolicies(f.def, field.Config)

	var formComponent *string
	if caps.FormComponent != "" {
		fc := caps.FormComponent
		formComponent = &fc
	}

	f.logger.DebugContext(ctx, "preload built",
		"field", field.Handle, "kind", f.def.Kind, "selections", len(canonical))

	return types.PreloadPayload{
		Data:                           data,
		Columns:                        caps.Columns,
		ItemDataURL:                    f.endpoints.ItemData,
		BaseSelectionsURL:              f.endpoints.BaseSelections,
		GetBaseSelectionsURLParameters: f.def.baseParams(field.Config),
		ItemComponent:                  caps.ItemComponent,
		CanEdit:                        caps.CanEdit,
		CanCreate:                      caps.CanCreate,
		CanSearch:                      caps.CanSearch,
		StatusIcons:                    caps.StatusIcons,
		Creatables:                     caps.Creatables,
		FormComponent:                  formComponent,
		FormComponentProps:             caps.FormComponentProps,
		Taggable:                       caps.Taggable,
	}, nil
}

// isSequence reports whether value is slice- or array-shaped.
func isSequence(value any) bool {
	switch value.(type) {
	case []any, []string, types.CanonicalValue:
		return true
	}
	k := reflect.ValueOf(value).Kind()
	return k == reflect.Slice || k == reflect.Array
}
