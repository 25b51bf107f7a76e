package relationship

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// attrRecord is a Record with no optional accessors; everything goes
// through Get.
type attrRecord map[string]any

func (r attrRecord) EditURL() string {
	s, _ := r["edit_url"].(string)
	return s
}

func (r attrRecord) Published() bool {
	b, _ := r["published"].(bool)
	return b
}

func (r attrRecord) Get(key string) any { return r[key] }

// handleRecord exposes a handle and a title but no primary id.
type handleRecord struct {
	attrRecord
	handle string
}

func (r handleRecord) Handle() string { return r.handle }

// memStore is an in-memory record source keyed by id.
type memStore struct {
	records map[string]*types.Entry
	failOn  string
}

var errStoreDown = errors.New("store unavailable")

func newMemStore(entries ...*types.Entry) *memStore {
	s := &memStore{records: make(map[string]*types.Entry)}
	for _, e := range entries {
		s.records[e.RecordID] = e
	}
	return s
}

func (s *memStore) Resolve(ctx context.Context, id types.Identifier) (types.Item, error) {
	if s.failOn != "" && id == s.failOn {
		return types.Item{}, errStoreDown
	}
	if e, ok := s.records[id]; ok {
		return types.LiveItem(e), nil
	}
	return types.InvalidItem(id), nil
}

func (s *memStore) index(ctx context.Context, cfg types.FieldConfig, q types.ListQuery) (types.ListPage, error) {
	if s.failOn == "*" {
		return types.ListPage{}, errStoreDown
	}
	var items []types.Record
	for _, e := range s.records {
		if q.Search != "" && !strings.Contains(strings.ToLower(e.RecordTitle), strings.ToLower(q.Search)) {
			continue
		}
		items = append(items, e)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].(*types.Entry).RecordTitle, items[j].(*types.Entry).RecordTitle
		if q.Direction == types.SortDesc {
			return a > b
		}
		return a < b
	})
	total := len(items)
	start := min(q.Offset(), total)
	end := min(start+q.Limit(), total)
	return types.ListPage{Items: items[start:end], Total: total}, nil
}

// testDefinition builds a definition over store with the given tweaks.
func testDefinition(store *memStore, tweaks ...func(*Definition)) Definition {
	def := Base("things")
	def.Resolver = func(types.FieldConfig) types.IdentifierResolver { return store }
	def.Index = store.index
	for _, tweak := range tweaks {
		tweak(&def)
	}
	return def
}

func mustNew(def Definition, opts ...Option) *Fieldtype {
	ft, err := New(def, opts...)
	if err != nil {
		panic(err)
	}
	return ft
}

func alphaStore() *memStore {
	return newMemStore(
		&types.Entry{RecordID: "42", RecordTitle: "Alpha", URL: "/things/42/edit", IsPublished: true},
		&types.Entry{RecordID: "7", RecordTitle: "Seven", URL: "/things/7/edit"},
		&types.Entry{RecordID: "8", RecordTitle: "Eight", URL: "/things/8/edit"},
	)
}
