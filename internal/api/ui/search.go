package ui

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-viewer/internal/geocode"
	"github.com/joeblew999/plat-viewer/internal/viewer"
	"github.com/joeblew999/plat-viewer/internal/web"
)

// SearchHandler relays search input events into the geocode controller.
// Results flow back asynchronously over the /viewer/events stream.
type SearchHandler struct {
	viewer   *viewer.Viewer
	renderer *web.Renderer
}

// NewSearchHandler creates the search SSE handler.
func NewSearchHandler(v *viewer.Viewer, renderer *web.Renderer) *SearchHandler {
	return &SearchHandler{viewer: v, renderer: renderer}
}

func (h *SearchHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/viewer/search", h.Query, huma.OperationTags("viewer"))
	huma.Post(api, "/viewer/search/key", h.Key, huma.OperationTags("viewer"))
	huma.Post(api, "/viewer/select", h.Select, huma.OperationTags("viewer"))
}

// Query handles a query text edit: the controller debounces and fetches on
// its own schedule.
func (h *SearchHandler) Query(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	query := signals.String("searchquery")

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSE(humaCtx)
			h.viewer.Search.SetQuery(query)
			sse.Signals(map[string]any{"searching": h.viewer.Search.Searching()})
		},
	}, nil
}

// Key handles keyboard navigation over the result list.
func (h *SearchHandler) Key(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	key := signals.String("key")

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSE(humaCtx)
			search := h.viewer.Search
			switch key {
			case "ArrowDown":
				search.MoveHighlight(1)
			case "ArrowUp":
				search.MoveHighlight(-1)
			case "Enter":
				search.Commit()
			case "Escape":
				search.Clear()
				sse.Signals(map[string]any{"searchquery": ""})
			}
		},
	}, nil
}

// Select commits a clicked result by its index in the current list.
func (h *SearchHandler) Select(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	index := signals.Int("resultindex")

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSE(humaCtx)
			results := h.viewer.Search.Results()
			if index < 0 || index >= len(results) {
				sse.Error("no such result")
				return
			}
			h.viewer.Search.Select(results[index])
			sse.Signals(map[string]any{"searchquery": ""})
		},
	}, nil
}

// resultsData feeds the search-results fragment.
type resultsData struct {
	Places    []geocode.Place
	Highlight int
}
