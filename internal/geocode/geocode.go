// Package geocode provides place search: a rate-limited client for a
// Nominatim-style service, an offline DuckDB-backed index, and the
// interactive controller that debounces queries and tracks the result list.
package geocode

import (
	"context"

	"github.com/paulmach/orb"
)

// Place is one geocoding result. Result sets are replaced wholesale on each
// completed search; places are never merged across queries.
type Place struct {
	ID         int64     `json:"id" doc:"Stable place identifier"`
	Name       string    `json:"name" doc:"Display name" example:"Berlin, Deutschland"`
	Point      orb.Point `json:"point" doc:"Longitude/latitude pair"`
	Bound      orb.Bound `json:"bound" doc:"Bounding box"`
	Class      string    `json:"class,omitempty" doc:"Feature class" example:"boundary"`
	Type       string    `json:"type,omitempty" doc:"Feature type" example:"administrative"`
	Importance float64   `json:"importance,omitempty" doc:"Relative importance for ranking"`
}

// Searcher resolves a free-text query to places.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Place, error)
}
