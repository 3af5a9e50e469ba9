// Package api defines the Huma REST routes for the viewer.
package api

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-viewer/internal/capture"
	"github.com/joeblew999/plat-viewer/internal/geocode"
	"github.com/joeblew999/plat-viewer/internal/palette"
	"github.com/joeblew999/plat-viewer/internal/style"
	"github.com/joeblew999/plat-viewer/internal/viewer"
)

// Handler holds the REST API handlers. The viewer core is the only
// dependency.
type Handler struct {
	viewer   *viewer.Viewer
	searcher geocode.Searcher
}

// NewHandler creates the REST handler set.
func NewHandler(v *viewer.Viewer, searcher geocode.Searcher) *Handler {
	return &Handler{viewer: v, searcher: searcher}
}

// RegisterRoutes registers all REST routes.
func (h *Handler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/style", h.GetStyle, huma.OperationTags("style"))
	huma.Get(api, "/api/v1/palette", h.GetPalette, huma.OperationTags("palette"))
	huma.Put(api, "/api/v1/palette/{key}", h.PutColor, huma.OperationTags("palette"))
	huma.Post(api, "/api/v1/palette/reset", h.ResetPalette, huma.OperationTags("palette"))
	huma.Post(api, "/api/v1/palette/bulk", h.BulkApply, huma.OperationTags("palette"))
	huma.Get(api, "/api/v1/palette/export", h.ExportPalette, huma.OperationTags("palette"))
	huma.Get(api, "/api/v1/search", h.Search, huma.OperationTags("search"))
	huma.Post(api, "/api/v1/capture", h.Capture, huma.OperationTags("capture"))
}

// Types

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	Features []string `json:"features" doc:"Available features"`
}

type StyleInput struct {
	IfNoneMatch string `header:"If-None-Match" doc:"Previously returned style ETag"`
}

type StyleOutput struct {
	Status int
	ETag   string `header:"ETag"`
	Body   style.Document
}

type PaletteGroupBody struct {
	Name   string            `json:"name" doc:"Group name" example:"Roads"`
	Colors map[string]string `json:"colors" doc:"Key to hex color"`
}

type PaletteBody struct {
	Groups []PaletteGroupBody `json:"groups" doc:"Palette groups in display order"`
}

type ColorInput struct {
	Key  string `path:"key" doc:"Palette key" example:"water"`
	Body struct {
		Color string `json:"color" doc:"Hex color, #RGB or #RRGGBB" example:"#a6c7e3"`
	}
}

type ColorBody struct {
	Key   string `json:"key" doc:"Palette key"`
	Color string `json:"color" doc:"Stored (normalized) color"`
}

type BulkInput struct {
	Body struct {
		Text string `json:"text" doc:"Arbitrary text to extract colors from"`
	}
}

type BulkBody struct {
	Applied int `json:"applied" doc:"Number of palette keys updated"`
}

type ExportBody struct {
	Palette string `json:"palette" doc:"Palette values in canonical key order, space-separated"`
}

type SearchInput struct {
	Query string `query:"q" minLength:"1" doc:"Free-text place query" example:"berlin"`
}

type SearchBody struct {
	Places []geocode.Place `json:"places" doc:"Matching places, best first"`
}

type CaptureInput struct {
	PixelRatio float64 `query:"dpr" minimum:"0" doc:"Device pixel ratio of the canvas" example:"2"`
	RawBody    []byte  `contentType:"application/octet-stream"`
}

type CaptureOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// Handlers

func (h *Handler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *Handler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	features := []string{"theming", "capture"}
	if h.searcher != nil {
		features = append(features, "search")
	}
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "plat-viewer",
		Version:  "0.1.0",
		Features: features,
	}}, nil
}

// GetStyle returns the current themed style document. The ETag is the
// document fingerprint; a matching If-None-Match short-circuits to 304.
func (h *Handler) GetStyle(ctx context.Context, input *StyleInput) (*StyleOutput, error) {
	doc := h.viewer.Themed()
	etag, err := style.Fingerprint(doc)
	if err != nil {
		return nil, huma.Error500InternalServerError(err.Error())
	}
	if input.IfNoneMatch == etag {
		return &StyleOutput{Status: http.StatusNotModified, ETag: etag}, nil
	}
	return &StyleOutput{ETag: etag, Body: doc}, nil
}

func (h *Handler) GetPalette(ctx context.Context, input *struct{}) (*struct{ Body PaletteBody }, error) {
	snap := h.viewer.Palette.Snapshot()
	body := PaletteBody{}
	for _, g := range palette.Groups {
		colors := make(map[string]string, len(g.Keys))
		for _, k := range g.Keys {
			colors[string(k)] = snap[k]
		}
		body.Groups = append(body.Groups, PaletteGroupBody{Name: g.Name, Colors: colors})
	}
	return &struct{ Body PaletteBody }{Body: body}, nil
}

// PutColor applies a single palette edit. Malformed colors are tolerated
// (interactive typing) and reported back unchanged rather than failed.
func (h *Handler) PutColor(ctx context.Context, input *ColorInput) (*struct{ Body ColorBody }, error) {
	key := palette.Key(input.Key)
	known := false
	for _, k := range palette.Keys {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return nil, huma.Error404NotFound(fmt.Sprintf("unknown palette key %q", input.Key))
	}

	h.viewer.SetColor(key, input.Body.Color)
	return &struct{ Body ColorBody }{Body: ColorBody{
		Key:   input.Key,
		Color: h.viewer.Palette.Get(key),
	}}, nil
}

func (h *Handler) ResetPalette(ctx context.Context, input *struct{}) (*struct{ Body PaletteBody }, error) {
	h.viewer.ResetPalette()
	return h.GetPalette(ctx, input)
}

func (h *Handler) BulkApply(ctx context.Context, input *BulkInput) (*struct{ Body BulkBody }, error) {
	applied := h.viewer.BulkApply(input.Body.Text)
	return &struct{ Body BulkBody }{Body: BulkBody{Applied: applied}}, nil
}

func (h *Handler) ExportPalette(ctx context.Context, input *struct{}) (*struct{ Body ExportBody }, error) {
	return &struct{ Body ExportBody }{Body: ExportBody{Palette: h.viewer.Palette.Serialize()}}, nil
}

func (h *Handler) Search(ctx context.Context, input *SearchInput) (*struct{ Body SearchBody }, error) {
	if h.searcher == nil {
		return nil, huma.Error503ServiceUnavailable("search not configured")
	}
	places, err := h.searcher.Search(ctx, input.Query)
	if err != nil {
		// Search failures surface as an empty list, matching the viewer.
		places = nil
	}
	if places == nil {
		places = []geocode.Place{}
	}
	return &struct{ Body SearchBody }{Body: SearchBody{Places: places}}, nil
}

// Capture crops and scales a posted canvas snapshot to the square export.
func (h *Handler) Capture(ctx context.Context, input *CaptureInput) (*CaptureOutput, error) {
	src, _, err := image.Decode(bytes.NewReader(input.RawBody))
	if err != nil {
		return nil, huma.Error400BadRequest("decoding canvas image: " + err.Error())
	}

	result, err := h.viewer.Capture.Capture(memoryCanvas{img: src, ratio: input.PixelRatio})
	if err != nil {
		return nil, huma.Error500InternalServerError(err.Error())
	}

	return &CaptureOutput{
		ContentType:        "image/png",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", result.Filename),
		Body:               result.PNG,
	}, nil
}

// memoryCanvas adapts a decoded upload to the capture.Canvas contract.
type memoryCanvas struct {
	img   image.Image
	ratio float64
}

func (c memoryCanvas) Image() (image.Image, error) { return c.img, nil }
func (c memoryCanvas) PixelRatio() float64         { return c.ratio }

var _ capture.Canvas = memoryCanvas{}
