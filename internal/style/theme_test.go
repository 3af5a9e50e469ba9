package style

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/joeblew999/plat-viewer/internal/palette"
)

func testDoc(layers ...Layer) Document {
	return Document{Version: 8, Name: "test", Layers: layers}
}

func TestThemeDropsSymbolLayers(t *testing.T) {
	t.Parallel()

	doc := testDoc(
		Layer{ID: "place-labels", Type: "symbol", SourceLayer: "place"},
		Layer{ID: "water", Type: "fill", SourceLayer: "water"},
		Layer{ID: "poi-labels", Type: "Symbol", SourceLayer: "poi"},
	)

	out := Theme(doc, palette.NewStore())
	if len(out.Layers) != 1 {
		t.Fatalf("got %d layers, want 1", len(out.Layers))
	}
	if out.Layers[0].ID != "water" {
		t.Fatalf("surviving layer is %q", out.Layers[0].ID)
	}
}

func TestThemeWaterReplacesPaint(t *testing.T) {
	t.Parallel()

	pal := palette.NewStore()
	pal.Set(palette.Water, "#0000ff")

	doc := testDoc(Layer{
		ID: "water", Type: "fill", SourceLayer: "water",
		Paint: map[string]any{"fill-color": "#cccccc", "fill-pattern": "waves"},
	})

	got := Theme(doc, pal).Layers[0].Paint
	want := map[string]any{"fill-color": "#0000ff", "fill-opacity": 1.0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("paint=%v, want %v", got, want)
	}
}

func TestThemeWaterwayMergesPaint(t *testing.T) {
	t.Parallel()

	pal := palette.NewStore()
	pal.Set(palette.Waterway, "#3366ff")

	doc := testDoc(Layer{
		ID: "waterway-river", Type: "line", SourceLayer: "waterway",
		Paint: map[string]any{"line-color": "#cccccc", "line-width": 2.0},
	})

	got := Theme(doc, pal).Layers[0].Paint
	if got["line-color"] != "#3366ff" {
		t.Fatalf("line-color=%v", got["line-color"])
	}
	if got["line-width"] != 2.0 {
		t.Fatalf("line-width=%v, want prior value preserved", got["line-width"])
	}
}

func TestThemeBackground(t *testing.T) {
	t.Parallel()

	pal := palette.NewStore()
	pal.Set(palette.Background, "#111111")

	doc := testDoc(Layer{ID: "bg", Type: "background", Paint: map[string]any{"background-color": "#fff"}})
	got := Theme(doc, pal).Layers[0].Paint
	if got["background-color"] != "#111111" {
		t.Fatalf("background-color=%v", got["background-color"])
	}
}

func TestThemeLandcoverClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id      string
		color   palette.Key
		opacity float64
	}{
		{"landcover-grass", palette.Grass, 0.55},
		{"landcover-meadow", palette.Grass, 0.55},
		{"landcover-wood", palette.Wood, 0.6},
		{"landcover-sand", palette.Sand, 0.6},
		{"landcover-glacier", palette.Glacier, 0.7},
	}

	pal := palette.NewStore()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			doc := testDoc(Layer{ID: tt.id, Type: "fill", SourceLayer: "landcover"})
			got := Theme(doc, pal).Layers[0].Paint
			if got["fill-color"] != pal.Get(tt.color) {
				t.Fatalf("fill-color=%v, want %v", got["fill-color"], pal.Get(tt.color))
			}
			if got["fill-opacity"] != tt.opacity {
				t.Fatalf("fill-opacity=%v, want %v", got["fill-opacity"], tt.opacity)
			}
		})
	}
}

func TestThemeLandcoverUnknownClassKeepsPaint(t *testing.T) {
	t.Parallel()

	prior := map[string]any{"fill-color": "#deadbe"}
	doc := testDoc(Layer{ID: "landcover-wetland", Type: "fill", SourceLayer: "landcover", Paint: prior})
	got := Theme(doc, palette.NewStore()).Layers[0].Paint
	if !reflect.DeepEqual(got, prior) {
		t.Fatalf("paint=%v, want untouched %v", got, prior)
	}
}

func TestThemeLanduseClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id    string
		color palette.Key
	}{
		{"landuse-park", palette.Park},
		{"landuse-cemetery", palette.Park},
		{"landuse-residential", palette.Residential},
		{"landuse-commercial", palette.Commercial},
		{"landuse-industrial", palette.Industrial},
	}

	pal := palette.NewStore()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			doc := testDoc(Layer{ID: tt.id, Type: "fill", SourceLayer: "landuse"})
			got := Theme(doc, pal).Layers[0].Paint
			if got["fill-color"] != pal.Get(tt.color) {
				t.Fatalf("fill-color=%v, want %v", got["fill-color"], pal.Get(tt.color))
			}
		})
	}
}

func TestThemeRoadClasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id    string
		color palette.Key
	}{
		{"highway-motorway", palette.Motorway},
		{"highway-motorway-casing", palette.MotorwayCasing},
		{"highway-trunk", palette.Trunk},
		{"highway-primary", palette.Primary},
		{"highway-primary_case", palette.PrimaryCasing},
		{"highway-secondary", palette.Secondary},
		{"highway-tertiary", palette.Secondary},
		{"highway-path", palette.Path},
		{"highway-path-casing", palette.Path},
		{"railway-rail", palette.Rail},
		{"highway-minor", palette.Minor},
		{"highway-minor-outline", palette.MinorCasing},
		{"road", palette.Minor},
	}

	pal := palette.NewStore()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			doc := testDoc(Layer{
				ID: tt.id, Type: "line", SourceLayer: "transportation",
				Paint: map[string]any{"line-width": 1.5},
			})
			got := Theme(doc, pal).Layers[0].Paint
			if got["line-color"] != pal.Get(tt.color) {
				t.Fatalf("line-color=%v, want %v", got["line-color"], pal.Get(tt.color))
			}
			if got["line-width"] != 1.5 {
				t.Fatalf("line-width=%v, want prior value preserved", got["line-width"])
			}
		})
	}
}

func TestThemeBuildingExtrusionMerges(t *testing.T) {
	t.Parallel()

	pal := palette.NewStore()
	doc := testDoc(Layer{
		ID: "building-3d", Type: "fill-extrusion", SourceLayer: "building",
		Paint: map[string]any{"fill-extrusion-height": "expr"},
	})
	got := Theme(doc, pal).Layers[0].Paint
	if got["fill-extrusion-color"] != pal.Get(palette.Building3D) {
		t.Fatalf("fill-extrusion-color=%v", got["fill-extrusion-color"])
	}
	if got["fill-extrusion-opacity"] != 0.85 {
		t.Fatalf("fill-extrusion-opacity=%v", got["fill-extrusion-opacity"])
	}
	if got["fill-extrusion-height"] != "expr" {
		t.Fatal("fill-extrusion-height dropped")
	}
}

func TestThemeAerowayReplacesPaint(t *testing.T) {
	t.Parallel()

	pal := palette.NewStore()
	doc := testDoc(Layer{
		ID: "aeroway-runway", Type: "fill", SourceLayer: "aeroway",
		Paint: map[string]any{"fill-pattern": "stripes"},
	})
	got := Theme(doc, pal).Layers[0].Paint
	want := map[string]any{"fill-color": pal.Get(palette.Aeroway), "fill-opacity": 1.0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("paint=%v, want %v", got, want)
	}
}

func TestThemeUnmatchedLayerPassesThrough(t *testing.T) {
	t.Parallel()

	prior := map[string]any{"hillshade-shadow-color": "#555"}
	doc := testDoc(Layer{ID: "hillshade", Type: "hillshade", SourceLayer: "hillshade", Paint: prior})
	got := Theme(doc, palette.NewStore()).Layers[0].Paint
	if !reflect.DeepEqual(got, prior) {
		t.Fatalf("paint=%v, want untouched %v", got, prior)
	}
}

func TestThemeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	doc := testDoc(Layer{
		ID: "water", Type: "fill", SourceLayer: "water",
		Filter: json.RawMessage(`["all"]`),
		Paint:  map[string]any{"fill-color": "#cccccc"},
	})
	before, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	Theme(doc, palette.NewStore())

	after, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatalf("input mutated:\nbefore %s\nafter  %s", before, after)
	}
}

func TestThemeDeterministic(t *testing.T) {
	t.Parallel()

	doc := testDoc(
		Layer{ID: "bg", Type: "background"},
		Layer{ID: "water", Type: "fill", SourceLayer: "water"},
		Layer{ID: "highway-primary", Type: "line", SourceLayer: "transportation"},
	)
	pal := palette.NewStore()

	a, err := Fingerprint(Theme(doc, pal))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Fingerprint(Theme(doc, pal))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("fingerprints differ: %s vs %s", a, b)
	}
}
