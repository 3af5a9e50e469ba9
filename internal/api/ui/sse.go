// Package ui contains the Datastar SSE handlers driving the viewer page:
// search-as-you-type, result selection, keyboard navigation relay, camera
// state sync and live palette edits.
package ui

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/starfederation/datastar-go/datastar"
)

// EmptyInput is a shared empty input struct for handlers with no parameters.
type EmptyInput struct{}

// SSE wraps the Datastar SSE generator with the small helper surface the
// viewer handlers need.
type SSE struct {
	gen *datastar.ServerSentEventGenerator
}

// NewSSE creates an SSE helper from a Huma context.
func NewSSE(humaCtx huma.Context) *SSE {
	r, w := humago.Unwrap(humaCtx)
	return &SSE{gen: datastar.NewSSE(w, r)}
}

// Patch sends HTML to replace the content at a selector.
func (s *SSE) Patch(html, selector string) {
	s.gen.PatchElements(html, datastar.WithSelector(selector), datastar.WithModeInner())
}

// Signals sends arbitrary signals to the client.
func (s *SSE) Signals(signals map[string]any) {
	s.gen.MarshalAndPatchSignals(signals)
}

// Error sends an error signal to the client.
func (s *SSE) Error(msg string) {
	s.Signals(map[string]any{"error": msg})
}
