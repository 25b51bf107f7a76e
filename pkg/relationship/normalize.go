package relationship

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// ToCanonical converts a stored value into the canonical sequence.
// nil yields an empty sequence, a scalar a one-element sequence, and a
// sequence is kept in order with duplicates. It accepts any input.
func ToCanonical(raw any) types.CanonicalValue {
	switch v := raw.(type) {
	case nil:
		return types.CanonicalValue{}
	case types.CanonicalValue:
		if v == nil {
			return types.CanonicalValue{}
		}
		return v
	case []string:
		if v == nil {
			return types.CanonicalValue{}
		}
		return types.CanonicalValue(v)
	case string:
		return types.CanonicalValue{v}
	case types.Item, types.Record:
		return types.CanonicalValue{identifierOf(v)}
	case []any:
		out := make(types.CanonicalValue, 0, len(v))
		for _, elem := range v {
			out = append(out, identifierOf(elem))
		}
		return out
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return types.CanonicalValue{}
		}
		out := make(types.CanonicalValue, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, identifierOf(rv.Index(i).Interface()))
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return types.CanonicalValue{}
		}
		return ToCanonical(rv.Elem().Interface())
	}
	return types.CanonicalValue{identifierOf(raw)}
}

// ToStored converts a canonical sequence back to its stored shape: nil when
// empty, the first identifier when maxItems is 1, the sequence otherwise.
// Extra identifiers are dropped on the single-select path.
func ToStored(canonical types.CanonicalValue, maxItems int) any {
	if len(canonical) == 0 {
		return nil
	}
	if maxItems == 1 {
		return canonical[0]
	}
	return canonical
}

// identifierOf renders one scalar element as an identifier.
func identifierOf(v any) types.Identifier {
	switch x := v.(type) {
	case string:
		return x
	case types.Item:
		if x.Invalid || x.Record == nil {
			return x.Ref
		}
		return recordID(x.Record)
	case types.Record:
		return recordID(x)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
