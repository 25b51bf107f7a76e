package relationship

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/relations/pkg/types"
)

func TestPolicyResolve(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		cfg    types.FieldConfig
		want   bool
	}{
		{name: "zero value is fixed false", policy: Policy{}, cfg: types.FieldConfig{"create": true}, want: false},
		{name: "fixed true ignores config", policy: Fixed(true), cfg: types.FieldConfig{"create": false}, want: true},
		{name: "delegated unset uses default", policy: Delegated("create", true), cfg: nil, want: true},
		{name: "delegated explicit false", policy: Delegated("create", true), cfg: types.FieldConfig{"create": false}, want: false},
		{name: "delegated coerces strings", policy: Delegated("create", true), cfg: types.FieldConfig{"create": "false"}, want: false},
		{name: "delegated malformed uses default", policy: Delegated("edit", true), cfg: types.FieldConfig{"edit": "maybe"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Resolve(tt.cfg))
		})
	}
}

func TestPolicyDescribe(t *testing.T) {
	assert.True(t, Fixed(false).IsFixed())
	assert.False(t, Delegated("edit", true).IsFixed())
	assert.Equal(t, "edit", Delegated("edit", true).Key())
	assert.Equal(t, "fixed(false)", Fixed(false).String())
	assert.Equal(t, "delegated(edit, default true)", Delegated("edit", true).String())
}

func TestResolvePolicies(t *testing.T) {
	def := testDefinition(alphaStore(), func(d *Definition) {
		d.Create = Fixed(false)
		d.Edit = Delegated(types.KeyEdit, true)
		d.CanSearch = true
		d.Taggable = true
		d.FormComponent = "thing-form"
		d.FormProps = types.FormProps{"layout": "compact"}
	})

	caps := ResolvePolicies(def, types.FieldConfig{types.KeyEdit: false})
	assert.False(t, caps.CanCreate)
	assert.False(t, caps.CanEdit)
	assert.True(t, caps.CanSearch)
	assert.True(t, caps.Taggable)
	assert.False(t, caps.StatusIcons)
	assert.Equal(t, []types.Column{types.NewColumn("title")}, caps.Columns)
	assert.Equal(t, DefaultItemComponent, caps.ItemComponent)
	assert.Equal(t, "thing-form", caps.FormComponent)
	assert.Equal(t, []string{}, caps.Creatables)

	caps.FormComponentProps["layout"] = "wide"
	assert.Equal(t, "compact", def.FormProps["layout"], "resolved props must be a copy")
}
