package relationship

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/relations/pkg/types"
)

func TestToCanonical(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want types.CanonicalValue
	}{
		{name: "nil is empty", raw: nil, want: types.CanonicalValue{}},
		{name: "scalar string", raw: "7", want: types.CanonicalValue{"7"}},
		{name: "scalar int", raw: 42, want: types.CanonicalValue{"42"}},
		{name: "string slice keeps order", raw: []string{"b", "a"}, want: types.CanonicalValue{"b", "a"}},
		{name: "duplicates preserved", raw: []any{"a", "a"}, want: types.CanonicalValue{"a", "a"}},
		{name: "mixed sequence", raw: []any{"x", 3}, want: types.CanonicalValue{"x", "3"}},
		{name: "empty sequence", raw: []any{}, want: types.CanonicalValue{}},
		{name: "int array", raw: [2]int{1, 2}, want: types.CanonicalValue{"1", "2"}},
		{name: "canonical passes through", raw: types.CanonicalValue{"z"}, want: types.CanonicalValue{"z"}},
		{name: "no whitespace normalization", raw: " A ", want: types.CanonicalValue{" A "}},
		{name: "record becomes its id", raw: &types.Entry{RecordID: "9"}, want: types.CanonicalValue{"9"}},
		{name: "invalid item keeps its ref", raw: types.InvalidItem("gone"), want: types.CanonicalValue{"gone"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCanonical(tt.raw)
			assert.Equal(t, len(tt.want), len(got))
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestToStored(t *testing.T) {
	tests := []struct {
		name     string
		in       types.CanonicalValue
		maxItems int
		want     any
	}{
		{name: "empty is nil", in: types.CanonicalValue{}, maxItems: 0, want: nil},
		{name: "empty single-select is nil", in: types.CanonicalValue{}, maxItems: 1, want: nil},
		{name: "single-select keeps first only", in: types.CanonicalValue{"a", "b", "c"}, maxItems: 1, want: "a"},
		{name: "multi keeps sequence", in: types.CanonicalValue{"a", "b"}, maxItems: 0, want: types.CanonicalValue{"a", "b"}},
		{name: "bounded multi keeps sequence", in: types.CanonicalValue{"a", "b", "c"}, maxItems: 2, want: types.CanonicalValue{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToStored(tt.in, tt.maxItems))
		})
	}
}

func TestStoredRoundTripIsIdempotent(t *testing.T) {
	raws := []any{nil, "x", []string{}, []string{"a", "b"}, []any{"a", 1, "a"}, types.CanonicalValue{"q"}}
	for _, maxItems := range []int{0, 1, 3} {
		for _, raw := range raws {
			once := ToStored(ToCanonical(raw), maxItems)
			twice := ToStored(ToCanonical(once), maxItems)
			assert.Equal(t, once, twice, "raw=%v maxItems=%d", raw, maxItems)
		}
	}
}
