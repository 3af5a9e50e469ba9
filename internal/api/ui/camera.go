package ui

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-viewer/internal/camera"
	"github.com/joeblew999/plat-viewer/internal/viewer"
)

// CameraHandler syncs camera state reported by the browser map into the
// controller and relays navigation key and focus events.
type CameraHandler struct {
	viewer  *viewer.Viewer
	surface *camera.RemoteSurface
}

// NewCameraHandler creates the camera SSE handler. The surface must be the
// viewer's RemoteSurface so reported state lands where the controller reads.
func NewCameraHandler(v *viewer.Viewer, surface *camera.RemoteSurface) *CameraHandler {
	return &CameraHandler{viewer: v, surface: surface}
}

func (h *CameraHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/viewer/camera", h.Sync, huma.OperationTags("viewer"))
	huma.Post(api, "/viewer/nav", h.Nav, huma.OperationTags("viewer"))
	huma.Post(api, "/viewer/focus", h.Focus, huma.OperationTags("viewer"))
	huma.Post(api, "/viewer/dialog", h.Dialog, huma.OperationTags("viewer"))
}

// Sync mirrors a camera move report. A move that is not part of a fly-to
// may invalidate the active selection; moveend closes a fly-to.
func (h *CameraHandler) Sync(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			NewSSE(humaCtx)

			center := orb.Point{signals.Float("lon"), signals.Float("lat")}
			bounds := orb.Bound{
				Min: orb.Point{signals.Float("west"), signals.Float("south")},
				Max: orb.Point{signals.Float("east"), signals.Float("north")},
			}
			h.surface.Update(center, signals.Float("zoom"), bounds)

			if signals.Bool("moveend") {
				h.viewer.Camera.HandleMoveEnd()
				return
			}
			h.viewer.Camera.HandleMove()
		},
	}, nil
}

// Nav records a navigation key transition; the tick loop consumes the held
// set each frame.
func (h *CameraHandler) Nav(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			NewSSE(humaCtx)
			if signals.Bool("down") {
				h.viewer.Camera.KeyDown(signals.String("key"))
				return
			}
			h.viewer.Camera.KeyUp(signals.String("key"))
		},
	}, nil
}

// Focus marks whether the search input owns the keyboard.
func (h *CameraHandler) Focus(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			NewSSE(humaCtx)
			h.viewer.Camera.SetInputCaptured(signals.Bool("captured"))
		},
	}, nil
}

// Dialog tracks the theme dialog. Opening it clears held navigation keys.
func (h *CameraHandler) Dialog(ctx context.Context, input *SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}

	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			NewSSE(humaCtx)
			if signals.Bool("open") {
				h.viewer.OpenDialog()
				return
			}
			h.viewer.CloseDialog()
		},
	}, nil
}
