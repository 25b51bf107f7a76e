// Record CRUD and listing.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Get returns the record of kind whose ID or handle equals id. An ID match
// wins over a handle match. Returns ErrNotFound when neither matches.
func (b *Backend) Get(ctx context.Context, kind, id string) (types.Record, error) {
	if kind == "" {
		return nil, types.ErrInvalidKind
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	row := b.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE kind = ? AND (record_id = ? OR handle = ?) ORDER BY record_id = ? DESC LIMIT 1",
		kind, id, id, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", kind, id, err)
	}
	return e, nil
}

// Set creates or updates a record. An empty RecordID creates a new record
// with a UUID v7. Returns the record ID.
func (b *Backend) Set(ctx context.Context, e *types.Entry) (string, error) {
	if e == nil || e.Kind == "" || e.RecordTitle == "" {
		return "", types.ErrInvalidData
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrStoreDetached
	}

	now := b.now()
	if e.RecordID == "" {
		e.RecordID = generateUUID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	args, err := entryArgs(e)
	if err != nil {
		return "", err
	}
	_, err = b.db.ExecContext(ctx,
		"INSERT INTO records ("+recordColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) "+
			"ON CONFLICT(record_id) DO UPDATE SET kind = excluded.kind, handle = excluded.handle, "+
			"title = excluded.title, slug = excluded.slug, parent = excluded.parent, "+
			"published = excluded.published, edit_url = excluded.edit_url, data = excluded.data, "+
			"updated_at = excluded.updated_at",
		args...)
	if err != nil {
		return "", fmt.Errorf("persisting record: %w", err)
	}

	if err := b.persistRecordsLocked(ctx); err != nil {
		return "", fmt.Errorf("persisting %s: %w", recordsFile, err)
	}
	return e.RecordID, nil
}

// Delete removes the record of kind with the given ID.
func (b *Backend) Delete(ctx context.Context, kind, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	res, err := b.db.ExecContext(ctx, "DELETE FROM records WHERE kind = ? AND record_id = ?", kind, id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if err := b.persistRecordsLocked(ctx); err != nil {
		return fmt.Errorf("persisting %s: %w", recordsFile, err)
	}
	return nil
}

// List returns one page of records of kind. Sort names outside sortColumns
// fall back to title; Search matches title, handle, and slug; the parent
// parameter restricts to a comma-separated set of parents.
func (b *Backend) List(ctx context.Context, kind string, q types.ListQuery) (types.ListPage, error) {
	if kind == "" {
		return types.ListPage{}, types.ErrInvalidKind
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ListPage{}, types.ErrStoreDetached
	}

	conditions := []string{"kind = ?"}
	args := []any{kind}

	if q.Search != "" {
		pattern := "%" + escapeLike(q.Search) + "%"
		conditions = append(conditions,
			`(title LIKE ? ESCAPE '\' OR handle LIKE ? ESCAPE '\' OR slug LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if parents := splitParams(q.Params[types.ParamParent]); len(parents) > 0 {
		placeholders := make([]string, len(parents))
		for i, p := range parents {
			placeholders[i] = "?"
			args = append(args, p)
		}
		conditions = append(conditions, "parent IN ("+strings.Join(placeholders, ",")+")")
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := b.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records"+where, args...).Scan(&total); err != nil {
		return types.ListPage{}, fmt.Errorf("counting %s: %w", kind, err)
	}

	query := fmt.Sprintf("SELECT %s FROM records%s ORDER BY %s %s, record_id ASC LIMIT ? OFFSET ?",
		recordColumns, where, sortColumn(q.Sort), sortDirection(q.Direction))
	rows, err := b.db.QueryContext(ctx, query, append(args, q.Limit(), q.Offset())...)
	if err != nil {
		return types.ListPage{}, fmt.Errorf("listing %s: %w", kind, err)
	}
	defer rows.Close()

	items := []types.Record{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return types.ListPage{}, fmt.Errorf("scanning %s: %w", kind, err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return types.ListPage{}, err
	}
	return types.ListPage{Items: items, Total: total}, nil
}

// persistRecordsLocked writes every record to records.jsonl.
// The caller must hold b.mu.
func (b *Backend) persistRecordsLocked(ctx context.Context) error {
	rows, err := b.db.QueryContext(ctx, "SELECT "+recordColumns+" FROM records ORDER BY created_at, record_id")
	if err != nil {
		return fmt.Errorf("reading records for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return fmt.Errorf("scanning record for JSONL: %w", err)
		}
		rec, err := dehydrateEntry(e)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.dataDir, recordsFile), records)
}

func scanEntry(row rowScanner) (*types.Entry, error) {
	var (
		e                    types.Entry
		published            int
		data                 string
		createdAt, updatedAt string
	)
	err := row.Scan(&e.RecordID, &e.Kind, &e.RecordHandle, &e.RecordTitle, &e.Slug,
		&e.Parent, &published, &e.URL, &data, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	e.IsPublished = published != 0
	if data != "" {
		if err := json.Unmarshal([]byte(data), &e.Data); err != nil {
			return nil, fmt.Errorf("parsing record data: %w", err)
		}
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing record created_at: %w", err)
	}
	if e.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing record updated_at: %w", err)
	}
	return &e, nil
}

// entryArgs returns the INSERT arguments for e in recordColumns order.
func entryArgs(e *types.Entry) ([]any, error) {
	data := e.Data
	if data == nil {
		data = map[string]any{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal record data: %w", err)
	}
	published := 0
	if e.IsPublished {
		published = 1
	}
	createdAt, updatedAt := e.CreatedAt, e.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return []any{
		e.RecordID, e.Kind, e.RecordHandle, e.RecordTitle, e.Slug, e.Parent,
		published, e.URL, string(b),
		createdAt.UTC().Format(time.RFC3339), updatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func sortColumn(name string) string {
	if col, ok := sortColumns[name]; ok {
		return col
	}
	return defaultSortColumn
}

func sortDirection(dir string) string {
	if strings.EqualFold(dir, types.SortDesc) {
		return "DESC"
	}
	return "ASC"
}

// escapeLike escapes LIKE wildcards so search text matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func splitParams(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
