// JSONL loading on Attach.
package sqlite

import (
	"database/sql"
	"fmt"
)

// loadRecords reads records.jsonl and inserts every well-formed record into
// SQLite in one transaction. Malformed lines and records that violate
// constraints (for example a duplicate record_id) are skipped.
func loadRecords(db *sql.DB, path string) error {
	raws, err := readJSONL(path)
	if err != nil {
		return err
	}
	if len(raws) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO records (" + recordColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, raw := range raws {
		e, err := hydrateEntry(raw)
		if err != nil {
			continue
		}
		args, err := entryArgs(e)
		if err != nil {
			continue
		}
		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
