package geocode

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-viewer/internal/db"
)

// DuckIndex is an offline Searcher over a local places file loaded into an
// in-memory DuckDB table. It serves search when no remote endpoint is
// configured. Expected columns: id, name, lat, lon, south, north, west,
// east, class, type, importance.
type DuckIndex struct {
	conn *sql.DB
}

// NewDuckIndex loads a places file (CSV or Parquet) into memory.
func NewDuckIndex(placesPath string) (*DuckIndex, error) {
	conn, err := db.Open()
	if err != nil {
		return nil, err
	}

	reader := "read_csv_auto"
	switch strings.ToLower(filepath.Ext(placesPath)) {
	case ".parquet", ".geoparquet":
		reader = "read_parquet"
	}

	stmt := fmt.Sprintf("CREATE TABLE places AS SELECT * FROM %s(?)", reader)
	if _, err := conn.Exec(stmt, placesPath); err != nil {
		conn.Close()
		return nil, fmt.Errorf("loading places from %s: %w", placesPath, err)
	}
	return &DuckIndex{conn: conn}, nil
}

// Search matches place names case-insensitively and ranks by importance.
func (d *DuckIndex) Search(ctx context.Context, query string) ([]Place, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, name, lat, lon, south, north, west, east, class, type, importance
		FROM places
		WHERE name ILIKE '%' || ? || '%'
		ORDER BY importance DESC
		LIMIT ?`, query, MaxResults)
	if err != nil {
		return nil, fmt.Errorf("querying places: %w", err)
	}
	defer rows.Close()

	var places []Place
	for rows.Next() {
		var p Place
		var lat, lon, south, north, west, east float64
		if err := rows.Scan(&p.ID, &p.Name, &lat, &lon, &south, &north, &west, &east, &p.Class, &p.Type, &p.Importance); err != nil {
			return nil, fmt.Errorf("scanning place: %w", err)
		}
		p.Point = orb.Point{lon, lat}
		p.Bound = orb.Bound{Min: orb.Point{west, south}, Max: orb.Point{east, north}}
		places = append(places, p)
	}
	return places, rows.Err()
}

// Close releases the in-memory database.
func (d *DuckIndex) Close() error {
	return d.conn.Close()
}
