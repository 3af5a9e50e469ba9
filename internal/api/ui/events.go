package ui

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-viewer/internal/style"
	"github.com/joeblew999/plat-viewer/internal/viewer"
	"github.com/joeblew999/plat-viewer/internal/web"
)

// EventHandler streams viewer state changes to the page: search result
// fragments, the selection pill, style version bumps, capture flags and
// camera commands for the map.
type EventHandler struct {
	viewer   *viewer.Viewer
	renderer *web.Renderer
}

// NewEventHandler creates the events stream handler.
func NewEventHandler(v *viewer.Viewer, renderer *web.Renderer) *EventHandler {
	return &EventHandler{viewer: v, renderer: renderer}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/viewer/events", h.Events, huma.OperationTags("viewer"))
}

func (h *EventHandler) Events(ctx context.Context, input *EmptyInput) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSE(humaCtx)
			ch := h.viewer.Bus.Subscribe()
			defer h.viewer.Bus.Unsubscribe(ch)

			for {
				select {
				case <-ctx.Done():
					return
				case ev := <-ch:
					h.dispatch(sse, ev)
				}
			}
		},
	}, nil
}

func (h *EventHandler) dispatch(sse *SSE, ev viewer.Event) {
	switch ev.Topic {
	case viewer.TopicResults:
		h.patchResults(sse)
		sse.Signals(map[string]any{"searching": h.viewer.Search.Searching()})

	case viewer.TopicSelection:
		h.patchSelection(sse)

	case viewer.TopicStyle:
		version, err := style.Fingerprint(h.viewer.Themed())
		if err != nil {
			sse.Error(err.Error())
			return
		}
		sse.Signals(map[string]any{"styleversion": version})

	case viewer.TopicCapture:
		sse.Signals(map[string]any{
			"capturing": h.viewer.Capture.Capturing(),
			"captured":  h.viewer.Capture.Captured(),
		})

	case viewer.TopicCamera:
		if ev.Command != nil {
			sse.Signals(map[string]any{"cameracommand": ev.Command})
		}
	}
}

func (h *EventHandler) patchResults(sse *SSE) {
	html, err := h.renderer.Render("search-results.html", resultsData{
		Places:    h.viewer.Search.Results(),
		Highlight: h.viewer.Search.Highlight(),
	})
	if err != nil {
		sse.Error(err.Error())
		return
	}
	sse.Patch(html, "#search-results")
}

func (h *EventHandler) patchSelection(sse *SSE) {
	name := ""
	if sel := h.viewer.Camera.Selection(); sel != nil {
		name = sel.Name
	}
	html, err := h.renderer.Render("selection-pill.html", map[string]string{"Name": name})
	if err != nil {
		sse.Error(err.Error())
		return
	}
	sse.Patch(html, "#selection-pill")
}
