package relationship

import (
	"maps"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// SortColumn returns the requested sort column, or "" when absent. No default
// column is chosen here; the record store applies its own.
func SortColumn(req types.IndexRequest) string {
	return req.Get(types.ParamSort)
}

// SortDirection returns the requested order when it is asc or desc, and asc
// otherwise.
func SortDirection(req types.IndexRequest) string {
	switch order := req.Get(types.ParamOrder); order {
	case types.SortAsc, types.SortDesc:
		return order
	default:
		return types.SortAsc
	}
}

// Translate maps a listing request onto a store query. base holds the fixed
// scoping parameters of the relationship kind and is copied, not aliased.
func Translate(req types.IndexRequest, base map[string]string) types.ListQuery {
	params := make(map[string]string, len(base))
	maps.Copy(params, base)
	return types.ListQuery{
		Sort:      SortColumn(req),
		Direction: SortDirection(req),
		Search:    req.Get(types.ParamSearch),
		Page:      req.Int(types.ParamPage, 1),
		PerPage:   req.Int(types.ParamPerPage, 0),
		Params:    params,
	}
}
