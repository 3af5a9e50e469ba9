package style

import (
	"strings"

	"github.com/joeblew999/plat-viewer/internal/palette"
)

// Theme derives a recolored copy of a style document from a palette. The
// input document is never modified; the output is fully determined by its
// inputs. Symbol layers (labels) are dropped, every other layer is matched
// against the rule table below and repainted by the first matching rule.
func Theme(doc Document, pal *palette.Store) Document {
	out := doc
	out.Layers = make([]Layer, 0, len(doc.Layers))

	colors := pal.Snapshot()
	for _, layer := range doc.Layers {
		if strings.EqualFold(layer.Type, "symbol") {
			continue
		}
		themed := layer.clone()
		for _, rule := range themeRules {
			if rule.match(themed) {
				rule.paint(&themed, colors)
				break
			}
		}
		out.Layers = append(out.Layers, themed)
	}
	return out
}

// themeRule pairs a layer predicate with a paint builder. Rules are
// evaluated top to bottom, first match wins; layers matching no rule keep
// their existing paint.
type themeRule struct {
	match func(Layer) bool
	paint func(*Layer, map[palette.Key]string)
}

var themeRules = []themeRule{
	{
		match: typeIs("background"),
		paint: replace(func(c map[palette.Key]string) map[string]any {
			return map[string]any{"background-color": c[palette.Background]}
		}),
	},
	{
		match: layerIs("water", "fill"),
		paint: replace(func(c map[palette.Key]string) map[string]any {
			return map[string]any{"fill-color": c[palette.Water], "fill-opacity": 1.0}
		}),
	},
	{
		match: layerIs("waterway", "line"),
		paint: merge(func(c map[palette.Key]string) map[string]any {
			return map[string]any{"line-color": c[palette.Waterway]}
		}),
	},
	{
		match: layerIs("landcover", "fill"),
		paint: paintLandcover,
	},
	{
		match: layerIs("landuse", "fill"),
		paint: paintLanduse,
	},
	{
		match: func(l Layer) bool {
			if !strings.EqualFold(l.Type, "fill") {
				return false
			}
			return sourceLayer(l) == "park" || strings.HasPrefix(strings.ToLower(l.ID), "park")
		},
		paint: merge(func(c map[palette.Key]string) map[string]any {
			return map[string]any{"fill-color": c[palette.Park], "fill-opacity": 0.5}
		}),
	},
	{
		match: layerIs("building", "fill"),
		paint: replace(func(c map[palette.Key]string) map[string]any {
			return map[string]any{"fill-color": c[palette.Building], "fill-opacity": 1.0}
		}),
	},
	{
		match: layerIs("building", "fill-extrusion"),
		paint: merge(func(c map[palette.Key]string) map[string]any {
			return map[string]any{
				"fill-extrusion-color":   c[palette.Building3D],
				"fill-extrusion-opacity": 0.85,
			}
		}),
	},
	{
		match: layerIs("aeroway", "fill"),
		paint: replace(func(c map[palette.Key]string) map[string]any {
			return map[string]any{"fill-color": c[palette.Aeroway], "fill-opacity": 1.0}
		}),
	},
	{
		match: layerIs("transportation", "line"),
		paint: paintRoad,
	},
	{
		match: layerIs("boundary", "line"),
		paint: merge(func(c map[palette.Key]string) map[string]any {
			return map[string]any{"line-color": c[palette.Boundary], "line-opacity": 0.6}
		}),
	},
}

func typeIs(t string) func(Layer) bool {
	return func(l Layer) bool { return strings.EqualFold(l.Type, t) }
}

func layerIs(source, t string) func(Layer) bool {
	return func(l Layer) bool {
		return sourceLayer(l) == source && strings.EqualFold(l.Type, t)
	}
}

func sourceLayer(l Layer) string {
	return strings.ToLower(l.SourceLayer)
}

// replace builds a paint function that discards the layer's prior paint;
// these properties are fully owned by the theme.
func replace(build func(map[palette.Key]string) map[string]any) func(*Layer, map[palette.Key]string) {
	return func(l *Layer, c map[palette.Key]string) {
		l.Paint = build(c)
	}
}

// merge builds a paint function that overlays theme properties on the
// layer's existing paint, so widths and dash patterns survive.
func merge(build func(map[palette.Key]string) map[string]any) func(*Layer, map[palette.Key]string) {
	return func(l *Layer, c map[palette.Key]string) {
		mergePaint(l, build(c))
	}
}

func mergePaint(l *Layer, props map[string]any) {
	if l.Paint == nil {
		l.Paint = make(map[string]any, len(props))
	}
	for k, v := range props {
		l.Paint[k] = v
	}
}

// landcoverClasses maps identifier substrings to a fill color and opacity.
// Landcover layers matching none of these keep their original paint.
var landcoverClasses = []struct {
	keys    []string
	color   palette.Key
	opacity float64
}{
	{[]string{"grass", "meadow"}, palette.Grass, 0.55},
	{[]string{"wood", "forest", "tree"}, palette.Wood, 0.6},
	{[]string{"sand", "beach"}, palette.Sand, 0.6},
	{[]string{"glacier", "ice", "snow"}, palette.Glacier, 0.7},
}

func paintLandcover(l *Layer, c map[palette.Key]string) {
	id := strings.ToLower(l.ID)
	for _, class := range landcoverClasses {
		if containsAny(id, class.keys) {
			mergePaint(l, map[string]any{
				"fill-color":   c[class.color],
				"fill-opacity": class.opacity,
			})
			return
		}
	}
}

var landuseClasses = []struct {
	keys    []string
	color   palette.Key
	opacity float64
}{
	{[]string{"park", "garden", "recreation", "cemetery", "grass"}, palette.Park, 0.5},
	{[]string{"wood", "forest"}, palette.Wood, 0.5},
	{[]string{"residential"}, palette.Residential, 0.45},
	{[]string{"commercial", "retail"}, palette.Commercial, 0.4},
	{[]string{"industrial"}, palette.Industrial, 0.4},
}

func paintLanduse(l *Layer, c map[palette.Key]string) {
	id := strings.ToLower(l.ID)
	for _, class := range landuseClasses {
		if containsAny(id, class.keys) {
			mergePaint(l, map[string]any{
				"fill-color":   c[class.color],
				"fill-opacity": class.opacity,
			})
			return
		}
	}
}

// roadClasses maps identifier substrings to a fill/casing color pair.
// Classes without a casing variant (paths, rail) reuse the fill color for
// casing-named layers. The final entry is the catch-all for minor roads.
var roadClasses = []struct {
	keys   []string
	fill   palette.Key
	casing palette.Key
}{
	{[]string{"motorway"}, palette.Motorway, palette.MotorwayCasing},
	{[]string{"trunk"}, palette.Trunk, palette.TrunkCasing},
	{[]string{"primary"}, palette.Primary, palette.PrimaryCasing},
	{[]string{"secondary", "tertiary"}, palette.Secondary, palette.SecondaryCasing},
	{[]string{"path", "track", "pedestrian", "footway", "cycleway"}, palette.Path, palette.Path},
	{[]string{"rail", "transit"}, palette.Rail, palette.Rail},
	{nil, palette.Minor, palette.MinorCasing},
}

var casingMarkers = []string{"casing", "_case", "outline"}

func paintRoad(l *Layer, c map[palette.Key]string) {
	id := strings.ToLower(l.ID)
	isCasing := containsAny(id, casingMarkers)

	for _, class := range roadClasses {
		if class.keys != nil && !containsAny(id, class.keys) {
			continue
		}
		key := class.fill
		if isCasing {
			key = class.casing
		}
		mergePaint(l, map[string]any{"line-color": c[key]})
		return
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
