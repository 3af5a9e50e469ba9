package camera

import (
	"sync"
	"time"

	"github.com/paulmach/orb"
)

// Command is one camera instruction for the rendering surface.
type Command struct {
	Kind     string    `json:"kind"` // "panBy", "setZoom" or "fitBounds"
	DX       float64   `json:"dx,omitempty"`
	DY       float64   `json:"dy,omitempty"`
	Zoom     float64   `json:"zoom,omitempty"`
	Bound    orb.Bound `json:"bound,omitempty"`
	Padding  float64   `json:"padding,omitempty"`
	MaxZoom  float64   `json:"maxZoom,omitempty"`
	Duration int64     `json:"durationMs,omitempty"`
}

// RemoteSurface is a Surface whose real canvas lives across a connection.
// It mirrors the camera state the client reports and forwards commands
// through a callback; the SSE layer delivers them to the browser map.
type RemoteSurface struct {
	mu     sync.RWMutex
	zoom   float64
	center orb.Point
	bounds orb.Bound

	onCommand func(Command)
}

// NewRemoteSurface creates a surface relaying commands to send. The
// callback may be nil; commands are then dropped.
func NewRemoteSurface(send func(Command)) *RemoteSurface {
	return &RemoteSurface{onCommand: send}
}

// Update mirrors the camera state reported by the client.
func (s *RemoteSurface) Update(center orb.Point, zoom float64, bounds orb.Bound) {
	s.mu.Lock()
	s.center = center
	s.zoom = zoom
	s.bounds = bounds
	s.mu.Unlock()
}

// Center returns the mirrored camera center.
func (s *RemoteSurface) Center() orb.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.center
}

func (s *RemoteSurface) Zoom() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

func (s *RemoteSurface) Bounds() orb.Bound {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

func (s *RemoteSurface) SetZoom(z float64) {
	s.mu.Lock()
	s.zoom = z
	s.mu.Unlock()
	s.send(Command{Kind: "setZoom", Zoom: z})
}

func (s *RemoteSurface) PanBy(dx, dy float64) {
	s.send(Command{Kind: "panBy", DX: dx, DY: dy})
}

func (s *RemoteSurface) FitBounds(b orb.Bound, opts FitOptions) {
	s.send(Command{
		Kind:     "fitBounds",
		Bound:    b,
		Padding:  opts.Padding,
		MaxZoom:  opts.MaxZoom,
		Duration: int64(opts.Duration / time.Millisecond),
	})
}

func (s *RemoteSurface) send(cmd Command) {
	if s.onCommand != nil {
		s.onCommand(cmd)
	}
}
