// Package style models vector-tile style documents and the theming engine
// that recolors them from a palette.
package style

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Layer is one visual rule in a style document. Fields the theming engine
// does not touch are kept as raw JSON so they survive a round trip intact.
type Layer struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Source      string          `json:"source,omitempty"`
	SourceLayer string          `json:"source-layer,omitempty"`
	MinZoom     *float64        `json:"minzoom,omitempty"`
	MaxZoom     *float64        `json:"maxzoom,omitempty"`
	Filter      json.RawMessage `json:"filter,omitempty"`
	Layout      json.RawMessage `json:"layout,omitempty"`
	Paint       map[string]any  `json:"paint,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}

// Document is a vector style document. Sources, glyphs and sprite are
// opaque to the viewer and passed through untouched.
type Document struct {
	Version  int                        `json:"version"`
	Name     string                     `json:"name,omitempty"`
	Metadata json.RawMessage            `json:"metadata,omitempty"`
	Sources  map[string]json.RawMessage `json:"sources,omitempty"`
	Sprite   string                     `json:"sprite,omitempty"`
	Glyphs   string                     `json:"glyphs,omitempty"`
	Layers   []Layer                    `json:"layers"`
}

// Parse decodes a style document from JSON.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parsing style: %w", err)
	}
	return doc, nil
}

// Fetch downloads a style document. Callers are expected to fall back to
// RasterFallback when this fails; a viewer without a vector style still
// shows a map.
func Fetch(ctx context.Context, client *http.Client, url string) (Document, error) {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, fmt.Errorf("building style request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("fetching style: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("fetching style: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, fmt.Errorf("reading style: %w", err)
	}
	return Parse(data)
}

// RasterFallback is the degraded basemap used when the vector style cannot
// be loaded: a single raster tile source and one raster layer.
func RasterFallback() Document {
	source, _ := json.Marshal(map[string]any{
		"type":        "raster",
		"tiles":       []string{"https://tile.openstreetmap.org/{z}/{x}/{y}.png"},
		"tileSize":    256,
		"attribution": "© OpenStreetMap contributors",
	})
	return Document{
		Version: 8,
		Name:    "fallback-raster",
		Sources: map[string]json.RawMessage{"basemap-raster": source},
		Layers: []Layer{
			{ID: "basemap-raster", Type: "raster", Source: "basemap-raster"},
		},
	}
}

// Fingerprint hashes the marshaled document. Identical documents hash
// identically (encoding/json emits map keys sorted), so this serves as an
// ETag and change marker.
func Fingerprint(doc Document) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling style: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

// clone deep-copies a layer so theming never aliases the input document.
func (l Layer) clone() Layer {
	out := l
	out.Filter = append(json.RawMessage(nil), l.Filter...)
	out.Layout = append(json.RawMessage(nil), l.Layout...)
	out.Metadata = append(json.RawMessage(nil), l.Metadata...)
	if l.MinZoom != nil {
		v := *l.MinZoom
		out.MinZoom = &v
	}
	if l.MaxZoom != nil {
		v := *l.MaxZoom
		out.MaxZoom = &v
	}
	if l.Paint != nil {
		out.Paint = make(map[string]any, len(l.Paint))
		for k, v := range l.Paint {
			out.Paint[k] = v
		}
	}
	return out
}
