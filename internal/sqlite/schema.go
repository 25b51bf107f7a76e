package sqlite

// Schema DDL for the record store.
const (
	createRecords = `CREATE TABLE records (
    record_id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    handle TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    slug TEXT NOT NULL DEFAULT '',
    parent TEXT NOT NULL DEFAULT '',
    published INTEGER NOT NULL DEFAULT 0,
    edit_url TEXT NOT NULL DEFAULT '',
    data TEXT NOT NULL DEFAULT '{}',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// Index DDL for lookups by handle and scoped listings.
const (
	idxRecordsKind       = `CREATE INDEX idx_records_kind ON records(kind);`
	idxRecordsKindHandle = `CREATE INDEX idx_records_kind_handle ON records(kind, handle);`
	idxRecordsKindParent = `CREATE INDEX idx_records_kind_parent ON records(kind, parent);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createRecords,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxRecordsKind,
	idxRecordsKindHandle,
	idxRecordsKindParent,
}

// recordColumns is the column list shared by every SELECT and INSERT.
const recordColumns = "record_id, kind, handle, title, slug, parent, published, edit_url, data, created_at, updated_at"

// sortColumns maps listing sort names to columns. Unknown names sort by title.
var sortColumns = map[string]string{
	"id":         "record_id",
	"title":      "title",
	"handle":     "handle",
	"slug":       "slug",
	"parent":     "parent",
	"published":  "published",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

const defaultSortColumn = "title"
