// Package viewer assembles the map viewer core: palette, theming, search,
// camera and capture, wired together and published over an event bus.
package viewer

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/joeblew999/plat-viewer/internal/camera"
	"github.com/joeblew999/plat-viewer/internal/capture"
	"github.com/joeblew999/plat-viewer/internal/geocode"
	"github.com/joeblew999/plat-viewer/internal/palette"
	"github.com/joeblew999/plat-viewer/internal/sched"
	"github.com/joeblew999/plat-viewer/internal/style"
)

// Config wires a Viewer's collaborators.
type Config struct {
	StyleURL string           // vector style endpoint; empty means fallback only
	Searcher geocode.Searcher // place search backend
	Surface  camera.Surface   // rendering surface; may be nil until bound
	Clock    sched.Clock      // nil means the real clock
	HTTP     *http.Client     // nil means a default client
}

// Viewer owns the viewer core state. The rendering surface and UI chrome
// live elsewhere; they consume the state this type produces.
type Viewer struct {
	Palette *palette.Store
	Search  *geocode.Controller
	Camera  *camera.Controller
	Capture *capture.Recorder
	Surface camera.Surface
	Bus     *EventBus

	ticker   *sched.Ticker
	styleURL string
	http     *http.Client

	mu     sync.RWMutex
	raw    style.Document
	themed style.Document
	vector bool // false after falling back to the raster basemap
}

// New assembles a viewer. Call LoadStyle before serving to populate the
// style documents.
func New(cfg Config) *Viewer {
	clock := cfg.Clock
	if clock == nil {
		clock = sched.RealClock{}
	}

	v := &Viewer{
		Palette:  palette.NewStore(),
		Bus:      NewEventBus(),
		ticker:   sched.NewTicker(camera.TickInterval),
		styleURL: cfg.StyleURL,
		http:     cfg.HTTP,
	}

	v.Surface = cfg.Surface
	if v.Surface == nil {
		// The default surface relays camera commands over the event bus;
		// the SSE layer delivers them to the browser map.
		v.Surface = camera.NewRemoteSurface(func(cmd camera.Command) {
			v.Bus.Publish(Event{Topic: TopicCamera, Command: &cmd})
		})
	}

	v.Camera = camera.New(v.Surface, func() {
		v.Bus.Publish(Event{Topic: TopicSelection})
	})
	v.Search = geocode.NewController(cfg.Searcher, clock,
		func(p geocode.Place) {
			v.Camera.FlyTo(p.Name, p.Point, p.Bound)
			v.Bus.Publish(Event{Topic: TopicSelection})
		},
		func() {
			v.Bus.Publish(Event{Topic: TopicResults})
		},
	)
	v.Capture = capture.NewRecorder(clock, func() {
		v.Bus.Publish(Event{Topic: TopicCapture})
	})

	v.raw = style.RasterFallback()
	v.themed = v.raw
	return v
}

// LoadStyle fetches the vector style and themes it with the current
// palette. Any failure degrades to the built-in raster basemap; theming is
// not invoked again for the session.
func (v *Viewer) LoadStyle(ctx context.Context) {
	if v.styleURL == "" {
		log.Printf("no style URL configured, using raster fallback")
		return
	}

	doc, err := style.Fetch(ctx, v.http, v.styleURL)
	if err != nil {
		log.Printf("style fetch failed, using raster fallback: %v", err)
		return
	}

	v.mu.Lock()
	v.raw = doc
	v.vector = true
	v.themed = style.Theme(doc, v.Palette)
	v.mu.Unlock()
	v.Bus.Publish(Event{Topic: TopicStyle})
}

// Themed returns the current themed style document.
func (v *Viewer) Themed() style.Document {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.themed
}

// Retheme regenerates the themed document from the current palette. It is a
// no-op after the raster fallback; there is nothing to theme.
func (v *Viewer) Retheme() {
	v.mu.Lock()
	if !v.vector {
		v.mu.Unlock()
		return
	}
	v.themed = style.Theme(v.raw, v.Palette)
	v.mu.Unlock()
	v.Bus.Publish(Event{Topic: TopicStyle})
}

// SetColor applies a single palette edit and rethemes on success.
func (v *Viewer) SetColor(key palette.Key, color string) bool {
	if !v.Palette.Set(key, color) {
		return false
	}
	v.Retheme()
	return true
}

// BulkApply parses colors from text into the palette and rethemes when
// anything was applied. It returns the number of keys updated.
func (v *Viewer) BulkApply(text string) int {
	n := v.Palette.BulkApply(text)
	if n > 0 {
		v.Retheme()
	}
	return n
}

// ResetPalette restores the default palette and rethemes.
func (v *Viewer) ResetPalette() {
	v.Palette.Reset()
	v.Retheme()
}

// OpenDialog marks the theme dialog open: navigation keys are released and
// ignored until it closes.
func (v *Viewer) OpenDialog() {
	v.Camera.SetDialogOpen(true)
}

// CloseDialog marks the theme dialog closed.
func (v *Viewer) CloseDialog() {
	v.Camera.SetDialogOpen(false)
}

// StartTicks begins the keyboard navigation tick loop.
func (v *Viewer) StartTicks() {
	v.ticker.Start(v.Camera.Tick)
}

// StopTicks halts the tick loop.
func (v *Viewer) StopTicks() {
	v.ticker.Stop()
}
