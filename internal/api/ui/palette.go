package ui

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-viewer/internal/palette"
	"github.com/joeblew999/plat-viewer/internal/viewer"
	"github.com/joeblew999/plat-viewer/internal/web"
)

// PaletteHandler applies live theme edits from the dialog.
type PaletteHandler struct {
	viewer   *viewer.Viewer
	renderer *web.Renderer
}

// NewPaletteHandler creates the palette SSE handler.
func NewPaletteHandler(v *viewer.Viewer, renderer *web.Renderer) *PaletteHandler {
	return &PaletteHandler{viewer: v, renderer: renderer}
}

func (h *PaletteHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/viewer/palette", h.Edit, huma.OperationTags("viewer"))
	huma.Post(api, "/viewer/palette/show", h.Show, huma.OperationTags("viewer"))
	huma.Post(api, "/viewer/palette/reset", h.Reset, huma.OperationTags("viewer"))
	huma.Post(api, "/viewer/palette/bulk", h.Bulk, huma.OperationTags("viewer"))
}

// Show paints the palette groups into the dialog.
func (h *PaletteHandler) Show(ctx context.Context, input *EmptyInput) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			h.patchGroups(NewSSE(humaCtx))
		},
	}, nil
}

// Edit applies one color edit. Malformed values are ignored; the user may
// still be typing.
func (h *PaletteHandler) Edit(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	key := signals.String("palettekey")
	color := signals.String("palettecolor")

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			NewSSE(humaCtx)
			h.viewer.SetColor(palette.Key(key), color)
		},
	}, nil
}

// Reset restores the default palette and repaints the dialog.
func (h *PaletteHandler) Reset(ctx context.Context, input *EmptyInput) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSE(humaCtx)
			h.viewer.ResetPalette()
			h.patchGroups(sse)
		},
	}, nil
}

// Bulk extracts colors from pasted text and repaints the dialog when
// anything applied.
func (h *PaletteHandler) Bulk(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	text := signals.String("bulktext")

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSE(humaCtx)
			if h.viewer.BulkApply(text) > 0 {
				h.patchGroups(sse)
			}
		},
	}, nil
}

type paletteEntry struct {
	Key   string
	Color string
}

type paletteGroup struct {
	Name    string
	Entries []paletteEntry
}

func (h *PaletteHandler) patchGroups(sse *SSE) {
	snap := h.viewer.Palette.Snapshot()
	var groups []paletteGroup
	for _, g := range palette.Groups {
		group := paletteGroup{Name: g.Name}
		for _, k := range g.Keys {
			group.Entries = append(group.Entries, paletteEntry{Key: string(k), Color: snap[k]})
		}
		groups = append(groups, group)
	}

	html, err := h.renderer.Render("palette-groups.html", map[string]any{"Groups": groups})
	if err != nil {
		sse.Error(err.Error())
		return
	}
	sse.Patch(html, "#palette-groups")
}
