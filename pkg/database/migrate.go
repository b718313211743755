package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// catalog tables in drop order: children before images.
var catalogTables = []string{"dex_entry", "image_artists", "images"}

// Migrate creates any missing table or index. Existing rows are kept.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// ResetCatalog drops the catalog tables and recreates the schema inside tx.
// The species table is left alone.
func ResetCatalog(ctx context.Context, tx *sql.Tx) error {
	for _, t := range catalogTables {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+t); err != nil {
			return fmt.Errorf("drop %s: %w", t, err)
		}
	}
	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
