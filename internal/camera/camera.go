// Package camera coordinates the map camera: fly-to-bounds transitions,
// continuous keyboard pan/zoom on a per-tick basis, and invalidation of the
// active selection once it leaves the viewport.
package camera

import (
	"sync"
	"time"

	"github.com/paulmach/orb"
)

// Surface is the contract the controller needs from the rendering surface.
type Surface interface {
	// Center returns the current camera center.
	Center() orb.Point
	// Zoom returns the current zoom level.
	Zoom() float64
	// SetZoom sets the zoom level immediately, without animation.
	SetZoom(z float64)
	// PanBy shifts the viewport by a pixel delta, without animation.
	PanBy(dx, dy float64)
	// FitBounds fits a geographic bound into the viewport with padding,
	// clamped to maxZoom, over an eased transition of the given duration.
	FitBounds(b orb.Bound, opts FitOptions)
	// Bounds returns the current viewport bound.
	Bounds() orb.Bound
}

// FitOptions configures a FitBounds transition.
type FitOptions struct {
	Padding  float64
	MaxZoom  float64
	Duration time.Duration
}

// Fixed movement parameters. Per-tick deltas are not scaled by elapsed
// time; a slower tick rate moves the camera slower.
const (
	PanStep  = 8.0  // pixels per tick
	ZoomStep = 0.04 // zoom levels per tick

	FlyPadding  = 64.0
	FlyMaxZoom  = 14.0
	FlyDuration = 1600 * time.Millisecond

	TickInterval = 16 * time.Millisecond
)

// Navigation keys.
const (
	KeyUp      = "ArrowUp"
	KeyDown    = "ArrowDown"
	KeyLeft    = "ArrowLeft"
	KeyRight   = "ArrowRight"
	KeyZoomIn  = "+"
	KeyZoomIn2 = "="
	KeyZoomOut = "-"
)

var navKeys = map[string]struct{}{
	KeyUp: {}, KeyDown: {}, KeyLeft: {}, KeyRight: {},
	KeyZoomIn: {}, KeyZoomIn2: {}, KeyZoomOut: {},
}

// Selection is the active place pill: shown only while its coordinate stays
// inside the viewport.
type Selection struct {
	Name  string
	Point orb.Point
}

// Controller owns camera movement. All state is mutex-guarded; key handlers,
// the tick loop and move notifications may arrive from different goroutines.
type Controller struct {
	surface Surface

	// onSelectionCleared fires when a selection is invalidated by movement.
	onSelectionCleared func()

	mu            sync.Mutex
	held          map[string]struct{}
	flying        bool
	inputCaptured bool
	dialogOpen    bool
	selection     *Selection
}

// New creates a controller for a surface. onSelectionCleared may be nil.
func New(surface Surface, onSelectionCleared func()) *Controller {
	return &Controller{
		surface:            surface,
		onSelectionCleared: onSelectionCleared,
		held:               make(map[string]struct{}),
	}
}

// FlyTo fits the bound into the viewport and records the selection. The
// flying flag suppresses selection invalidation until HandleMoveEnd.
func (c *Controller) FlyTo(name string, point orb.Point, bound orb.Bound) {
	c.mu.Lock()
	c.flying = true
	c.selection = &Selection{Name: name, Point: point}
	c.mu.Unlock()

	c.surface.FitBounds(bound, FitOptions{
		Padding:  FlyPadding,
		MaxZoom:  FlyMaxZoom,
		Duration: FlyDuration,
	})
}

// HandleMoveEnd is the surface's movement-finished notification. It clears
// the flying flag so subsequent moves track selection visibility again.
func (c *Controller) HandleMoveEnd() {
	c.mu.Lock()
	c.flying = false
	c.mu.Unlock()
}

// HandleMove is the surface's camera-moved notification. Outside of a
// fly-to, a selection whose point left the viewport is cleared for good;
// panning back does not restore it.
func (c *Controller) HandleMove() {
	c.mu.Lock()
	if c.flying || c.selection == nil {
		c.mu.Unlock()
		return
	}
	cleared := false
	if !c.surface.Bounds().Contains(c.selection.Point) {
		c.selection = nil
		cleared = true
	}
	c.mu.Unlock()

	if cleared && c.onSelectionCleared != nil {
		c.onSelectionCleared()
	}
}

// Selection returns the active selection, or nil.
func (c *Controller) Selection() *Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection == nil {
		return nil
	}
	sel := *c.selection
	return &sel
}

// ClearSelection drops the active selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.selection = nil
	c.mu.Unlock()
}

// Flying reports whether a fly-to transition is in flight.
func (c *Controller) Flying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flying
}

// KeyDown records a navigation key press. Keys are ignored entirely while
// the search input has focus or the theme dialog is open.
func (c *Controller) KeyDown(key string) {
	if _, ok := navKeys[key]; !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inputCaptured || c.dialogOpen {
		return
	}
	c.held[key] = struct{}{}
}

// KeyUp removes a navigation key from the held set.
func (c *Controller) KeyUp(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.held, key)
}

// SetInputCaptured marks whether a text input owns the keyboard.
func (c *Controller) SetInputCaptured(captured bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputCaptured = captured
}

// SetDialogOpen marks the theme dialog state. Opening the dialog clears the
// held set; a modal stealing focus must not leave keys stuck down.
func (c *Controller) SetDialogOpen(open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialogOpen = open
	if open {
		c.held = make(map[string]struct{})
	}
}

// Tick applies one frame of keyboard movement: at most one pan and one zoom
// command, both immediate so consecutive ticks compose into a glide.
// Opposing arrows sum to zero net movement.
func (c *Controller) Tick() {
	c.mu.Lock()
	var dx, dy, dz float64
	for key := range c.held {
		switch key {
		case KeyUp:
			dy -= PanStep
		case KeyDown:
			dy += PanStep
		case KeyLeft:
			dx -= PanStep
		case KeyRight:
			dx += PanStep
		case KeyZoomIn, KeyZoomIn2:
			dz += ZoomStep
		case KeyZoomOut:
			dz -= ZoomStep
		}
	}
	c.mu.Unlock()

	if dx != 0 || dy != 0 {
		c.surface.PanBy(dx, dy)
	}
	if dz != 0 {
		c.surface.SetZoom(c.surface.Zoom() + dz)
	}
}
