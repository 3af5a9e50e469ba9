// Package db opens the in-memory DuckDB instance backing the offline place
// index. The viewer keeps no persisted state, so the database path is always
// :memory:; data is bulk-loaded from a places file at startup.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// Open creates an in-memory DuckDB connection with the spatial and parquet
// extensions loaded when available. Extension load failures are ignored;
// plain CSV loading works without them.
func Open() (*sql.DB, error) {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}

	for _, ext := range []string{"spatial", "parquet"} {
		conn.Exec(fmt.Sprintf("INSTALL %s; LOAD %s;", ext, ext))
	}
	return conn, nil
}
