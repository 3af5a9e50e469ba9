// Package palette holds the basemap color palette: a fixed set of named
// colors the theming engine pulls from when recoloring a style document.
package palette

import (
	"regexp"
	"strings"
	"sync"
)

// Key identifies one palette color.
type Key string

// Palette keys, grouped by what they color. The order of Keys below is the
// canonical order used by Serialize and BulkApply.
const (
	// Base
	Background Key = "background"
	Water      Key = "water"
	Waterway   Key = "waterway"
	Boundary   Key = "boundary"

	// Nature
	Grass   Key = "grass"
	Wood    Key = "wood"
	Sand    Key = "sand"
	Glacier Key = "glacier"
	Park    Key = "park"

	// Urban
	Residential Key = "residential"
	Commercial  Key = "commercial"
	Industrial  Key = "industrial"
	Building    Key = "building"
	Building3D  Key = "building3d"
	Aeroway     Key = "aeroway"

	// Roads
	Motorway        Key = "motorway"
	MotorwayCasing  Key = "motorwayCasing"
	Trunk           Key = "trunk"
	TrunkCasing     Key = "trunkCasing"
	Primary         Key = "primary"
	PrimaryCasing   Key = "primaryCasing"
	Secondary       Key = "secondary"
	SecondaryCasing Key = "secondaryCasing"
	Minor           Key = "minor"
	MinorCasing     Key = "minorCasing"
	Path            Key = "path"
	Rail            Key = "rail"
)

// Keys is the canonical key order.
var Keys = []Key{
	Background, Water, Waterway, Boundary,
	Grass, Wood, Sand, Glacier, Park,
	Residential, Commercial, Industrial, Building, Building3D, Aeroway,
	Motorway, MotorwayCasing, Trunk, TrunkCasing, Primary, PrimaryCasing,
	Secondary, SecondaryCasing, Minor, MinorCasing, Path, Rail,
}

// Groups maps group names to their keys, in display order.
var Groups = []struct {
	Name string
	Keys []Key
}{
	{"Base", []Key{Background, Water, Waterway, Boundary}},
	{"Nature", []Key{Grass, Wood, Sand, Glacier, Park}},
	{"Urban", []Key{Residential, Commercial, Industrial, Building, Building3D, Aeroway}},
	{"Roads", []Key{Motorway, MotorwayCasing, Trunk, TrunkCasing, Primary, PrimaryCasing, Secondary, SecondaryCasing, Minor, MinorCasing, Path, Rail}},
}

// defaults is the built-in palette, a soft daylight basemap theme.
var defaults = map[Key]string{
	Background: "#f4f1ea",
	Water:      "#a6c7e3",
	Waterway:   "#9cc0dd",
	Boundary:   "#a897b4",

	Grass:   "#cde6b5",
	Wood:    "#a8d294",
	Sand:    "#eee3c2",
	Glacier: "#e8f1f7",
	Park:    "#c3e2a9",

	Residential: "#e8e2d8",
	Commercial:  "#e9dcd4",
	Industrial:  "#dcd9e0",
	Building:    "#d9cfc3",
	Building3D:  "#cfc4b6",
	Aeroway:     "#dad6cf",

	Motorway:        "#f2a25c",
	MotorwayCasing:  "#d97f33",
	Trunk:           "#f5b971",
	TrunkCasing:     "#e09b49",
	Primary:         "#f8d58c",
	PrimaryCasing:   "#ddb05e",
	Secondary:       "#fdf2cd",
	SecondaryCasing: "#d9c892",
	Minor:           "#ffffff",
	MinorCasing:     "#d4cec4",
	Path:            "#cbbfa8",
	Rail:            "#b3a8b8",
}

var (
	hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	hexTokenRe = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})`)
	nonHexRe   = regexp.MustCompile(`[^0-9a-fA-F]`)
)

// Store holds the current palette. Every key always has a value; keys are
// never added or removed at runtime.
type Store struct {
	mu     sync.RWMutex
	colors map[Key]string
}

// NewStore creates a palette initialized from the built-in default.
func NewStore() *Store {
	s := &Store{colors: make(map[Key]string, len(Keys))}
	for k, v := range defaults {
		s.colors[k] = v
	}
	return s
}

// Get returns the color for a key. Unknown keys return the empty string;
// every key in Keys is always defined.
func (s *Store) Get(key Key) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colors[key]
}

// Set stores a color for a key. Values that are not a #RGB or #RRGGBB hex
// string are ignored without error, so half-typed input never corrupts the
// palette. It reports whether the value was applied.
func (s *Store) Set(key Key, color string) bool {
	if _, ok := defaults[key]; !ok {
		return false
	}
	if !hexColorRe.MatchString(color) {
		return false
	}
	s.mu.Lock()
	s.colors[key] = normalize(color)
	s.mu.Unlock()
	return true
}

// Reset restores every key to the built-in default.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range defaults {
		s.colors[k] = v
	}
}

// Snapshot returns a copy of the current key-to-color mapping.
func (s *Store) Snapshot() map[Key]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Key]string, len(s.colors))
	for k, v := range s.colors {
		out[k] = v
	}
	return out
}

// Serialize concatenates the palette values in canonical key order,
// space-separated. This is the export format BulkApply round-trips.
func (s *Store) Serialize() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	parts := make([]string, len(Keys))
	for i, k := range Keys {
		parts[i] = s.colors[k]
	}
	return strings.Join(parts, " ")
}

// BulkApply extracts colors from arbitrary text and assigns them to keys in
// canonical order. Extraction is two-tier: first every #RGB/#RRGGBB token in
// the text; if none are found, all non-hex characters are stripped and the
// remainder is chunked into consecutive 6-digit groups. Extra colors beyond
// the key count are discarded, missing ones leave trailing keys unchanged.
// It returns the number of keys updated; zero usable tokens is a no-op.
func (s *Store) BulkApply(text string) int {
	colors := extractColors(text)
	if len(colors) == 0 {
		return 0
	}
	if len(colors) > len(Keys) {
		colors = colors[:len(Keys)]
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range colors {
		s.colors[Keys[i]] = c
	}
	return len(colors)
}

func extractColors(text string) []string {
	tokens := hexTokenRe.FindAllString(text, -1)
	if len(tokens) > 0 {
		out := make([]string, len(tokens))
		for i, t := range tokens {
			out[i] = normalize(t)
		}
		return out
	}

	stripped := nonHexRe.ReplaceAllString(text, "")
	var out []string
	for len(stripped) >= 6 {
		out = append(out, "#"+strings.ToLower(stripped[:6]))
		stripped = stripped[6:]
	}
	return out
}

// normalize lowercases a hex color and expands #RGB to #RRGGBB.
func normalize(color string) string {
	color = strings.ToLower(color)
	if len(color) == 4 {
		r, g, b := color[1], color[2], color[3]
		return "#" + string([]byte{r, r, g, g, b, b})
	}
	return color
}
