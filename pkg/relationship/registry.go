package relationship

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// Registry maps relationship kinds to Fieldtypes and field handles to their
// configured instances. Fields are validated when added, so a misconfigured
// field never reaches Preload.
type Registry struct {
	mu     sync.RWMutex
	kinds  map[string]*Fieldtype
	fields map[string]types.Field
}

// NewRegistry returns a Registry holding the given Fieldtypes.
func NewRegistry(fieldtypes ...*Fieldtype) *Registry {
	r := &Registry{
		kinds:  make(map[string]*Fieldtype),
		fields: make(map[string]types.Field),
	}
	for _, ft := range fieldtypes {
		r.kinds[ft.Kind()] = ft
	}
	return r
}

// RegisterKind adds or replaces a Fieldtype.
func (r *Registry) RegisterKind(ft *Fieldtype) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[ft.Kind()] = ft
}

// Kind returns the Fieldtype for kind.
func (r *Registry) Kind(kind string) (*Fieldtype, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ft, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownKind, kind)
	}
	return ft, nil
}

// Kinds returns the registered kind names in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.kinds))
}

// AddField validates field against its kind and registers it.
func (r *Registry) AddField(field types.Field) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addFieldLocked(field)
}

// AddFields registers every valid field and returns all problems found,
// aggregated.
func (r *Registry) AddFields(fields []types.Field) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result *multierror.Error
	for _, field := range fields {
		if err := r.addFieldLocked(field); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func (r *Registry) addFieldLocked(field types.Field) error {
	if field.Handle == "" {
		return &types.ConfigError{Key: "handle", Err: types.ErrFieldNotFound}
	}
	if _, ok := r.fields[field.Handle]; ok {
		return &types.ConfigError{Field: field.Handle, Key: "handle", Err: types.ErrDuplicateField}
	}
	ft, ok := r.kinds[field.Type]
	if !ok {
		return &types.ConfigError{Field: field.Handle, Key: "type", Err: types.ErrUnknownKind}
	}
	if err := ft.ValidateConfig(field.Handle, field.Config); err != nil {
		return err
	}
	if field.Config == nil {
		field.Config = types.FieldConfig{}
	}
	r.fields[field.Handle] = field
	return nil
}

// Field returns the registered field and its Fieldtype.
func (r *Registry) Field(handle string) (types.Field, *Fieldtype, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	field, ok := r.fields[handle]
	if !ok {
		return types.Field{}, nil, fmt.Errorf("%w: %q", types.ErrFieldNotFound, handle)
	}
	return field, r.kinds[field.Type], nil
}

// Fields returns the registered fields ordered by handle.
func (r *Registry) Fields() []types.Field {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Field, 0, len(r.fields))
	for _, h := range slices.Sorted(maps.Keys(r.fields)) {
		out = append(out, r.fields[h])
	}
	return out
}
