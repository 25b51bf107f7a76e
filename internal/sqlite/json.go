// JSON record structure for records.jsonl.
package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/relations/pkg/types"
)

// recordJSON is one line of records.jsonl. Timestamps are RFC 3339 strings
// and unknown fields are ignored on read.
type recordJSON struct {
	RecordID  string         `json:"record_id"`
	Kind      string         `json:"kind"`
	Handle    string         `json:"handle"`
	Title     string         `json:"title"`
	Slug      string         `json:"slug"`
	Parent    string         `json:"parent"`
	Published bool           `json:"published"`
	EditURL   string         `json:"edit_url"`
	Data      map[string]any `json:"data"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// dehydrateEntry renders an entry as one JSONL line.
func dehydrateEntry(e *types.Entry) (json.RawMessage, error) {
	rec := recordJSON{
		RecordID:  e.RecordID,
		Kind:      e.Kind,
		Handle:    e.RecordHandle,
		Title:     e.RecordTitle,
		Slug:      e.Slug,
		Parent:    e.Parent,
		Published: e.IsPublished,
		EditURL:   e.URL,
		Data:      e.Data,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if rec.Data == nil {
		rec.Data = map[string]any{}
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record %s: %w", e.RecordID, err)
	}
	return b, nil
}

// hydrateEntry parses one JSONL line.
func hydrateEntry(raw json.RawMessage) (*types.Entry, error) {
	var rec recordJSON
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	if rec.RecordID == "" || rec.Kind == "" {
		return nil, types.ErrInvalidData
	}
	e := &types.Entry{
		RecordID:     rec.RecordID,
		Kind:         rec.Kind,
		RecordHandle: rec.Handle,
		RecordTitle:  rec.Title,
		Slug:         rec.Slug,
		Parent:       rec.Parent,
		IsPublished:  rec.Published,
		URL:          rec.EditURL,
		Data:         rec.Data,
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, rec.CreatedAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, rec.UpdatedAt)
	return e, nil
}
