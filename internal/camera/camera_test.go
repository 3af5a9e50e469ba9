package camera

import (
	"testing"

	"github.com/paulmach/orb"
)

// fakeSurface records every command and serves a settable viewport.
type fakeSurface struct {
	center orb.Point
	zoom   float64
	bounds orb.Bound

	pans []orb.Point
	sets []float64
	fits []orb.Bound
	opts []FitOptions
}

func (f *fakeSurface) Center() orb.Point { return f.center }
func (f *fakeSurface) Zoom() float64     { return f.zoom }
func (f *fakeSurface) SetZoom(z float64) { f.sets = append(f.sets, z); f.zoom = z }
func (f *fakeSurface) PanBy(dx, dy float64) {
	f.pans = append(f.pans, orb.Point{dx, dy})
}
func (f *fakeSurface) FitBounds(b orb.Bound, opts FitOptions) {
	f.fits = append(f.fits, b)
	f.opts = append(f.opts, opts)
}
func (f *fakeSurface) Bounds() orb.Bound { return f.bounds }

func wideBounds() orb.Bound {
	return orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}}
}

func TestFlyToIssuesSingleFit(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{bounds: wideBounds()}
	c := New(surface, nil)

	target := orb.Bound{Min: orb.Point{13.0, 52.3}, Max: orb.Point{13.8, 52.7}}
	c.FlyTo("Berlin", orb.Point{13.4, 52.5}, target)

	if len(surface.fits) != 1 {
		t.Fatalf("got %d FitBounds calls, want 1", len(surface.fits))
	}
	if surface.fits[0] != target {
		t.Fatalf("fit bound=%v, want %v", surface.fits[0], target)
	}
	got := surface.opts[0]
	if got.Padding != FlyPadding || got.MaxZoom != FlyMaxZoom || got.Duration != FlyDuration {
		t.Fatalf("fit options=%+v", got)
	}
	if !c.Flying() {
		t.Fatal("not flying after FlyTo")
	}
	if sel := c.Selection(); sel == nil || sel.Name != "Berlin" {
		t.Fatalf("selection=%v", sel)
	}

	c.HandleMoveEnd()
	if c.Flying() {
		t.Fatal("still flying after HandleMoveEnd")
	}
}

func TestTickPansOncePerTick(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{bounds: wideBounds()}
	c := New(surface, nil)

	c.KeyDown(KeyRight)
	for i := 0; i < 4; i++ {
		c.Tick()
	}
	c.KeyUp(KeyRight)
	c.Tick()

	if len(surface.pans) != 4 {
		t.Fatalf("got %d pans, want 4", len(surface.pans))
	}
	for _, p := range surface.pans {
		if p != (orb.Point{PanStep, 0}) {
			t.Fatalf("pan=%v, want {%v 0}", p, PanStep)
		}
	}
}

func TestTickDiagonalCombinesAxes(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{bounds: wideBounds()}
	c := New(surface, nil)

	c.KeyDown(KeyRight)
	c.KeyDown(KeyUp)
	c.Tick()

	if len(surface.pans) != 1 {
		t.Fatalf("got %d pans, want 1", len(surface.pans))
	}
	if surface.pans[0] != (orb.Point{PanStep, -PanStep}) {
		t.Fatalf("pan=%v", surface.pans[0])
	}
}

func TestTickOpposingKeysCancel(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{bounds: wideBounds()}
	c := New(surface, nil)

	c.KeyDown(KeyLeft)
	c.KeyDown(KeyRight)
	c.Tick()

	if len(surface.pans) != 0 {
		t.Fatalf("got pans %v, want none", surface.pans)
	}
}

func TestTickZoom(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{zoom: 10, bounds: wideBounds()}
	c := New(surface, nil)

	c.KeyDown(KeyZoomIn)
	c.Tick()
	c.KeyUp(KeyZoomIn)
	c.KeyDown(KeyZoomOut)
	c.Tick()

	if len(surface.sets) != 2 {
		t.Fatalf("got %d SetZoom calls, want 2", len(surface.sets))
	}
	if surface.sets[0] != 10+ZoomStep {
		t.Fatalf("first zoom=%v", surface.sets[0])
	}
	if surface.sets[1] != 10 {
		t.Fatalf("second zoom=%v, want back to 10", surface.sets[1])
	}
}

func TestKeyDownIgnoredWhileInputCaptured(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{bounds: wideBounds()}
	c := New(surface, nil)

	c.SetInputCaptured(true)
	c.KeyDown(KeyRight)
	c.Tick()
	if len(surface.pans) != 0 {
		t.Fatalf("pans=%v while input captured", surface.pans)
	}

	c.SetInputCaptured(false)
	c.KeyDown(KeyRight)
	c.Tick()
	if len(surface.pans) != 1 {
		t.Fatalf("got %d pans after release, want 1", len(surface.pans))
	}
}

func TestDialogOpenClearsHeldKeys(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{bounds: wideBounds()}
	c := New(surface, nil)

	c.KeyDown(KeyRight)
	c.SetDialogOpen(true)
	c.Tick()
	if len(surface.pans) != 0 {
		t.Fatalf("pans=%v with dialog open", surface.pans)
	}

	// Keys pressed while the dialog is open are dropped too.
	c.KeyDown(KeyUp)
	c.SetDialogOpen(false)
	c.Tick()
	if len(surface.pans) != 0 {
		t.Fatalf("pans=%v, want none", surface.pans)
	}
}

func TestNonNavKeysIgnored(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{bounds: wideBounds()}
	c := New(surface, nil)

	c.KeyDown("a")
	c.KeyDown("Enter")
	c.Tick()
	if len(surface.pans) != 0 || len(surface.sets) != 0 {
		t.Fatal("non-navigation keys moved the camera")
	}
}

func TestMoveClearsSelectionOutsideViewport(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{bounds: wideBounds()}
	cleared := 0
	c := New(surface, func() { cleared++ })

	c.FlyTo("Berlin", orb.Point{13.4, 52.5}, orb.Bound{Min: orb.Point{13, 52}, Max: orb.Point{14, 53}})
	c.HandleMoveEnd()

	// Selection point inside the viewport: survives.
	surface.bounds = orb.Bound{Min: orb.Point{13, 52}, Max: orb.Point{14, 53}}
	c.HandleMove()
	if c.Selection() == nil {
		t.Fatal("selection cleared while point in view")
	}

	// Viewport moves away: cleared, once.
	surface.bounds = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}
	c.HandleMove()
	if c.Selection() != nil {
		t.Fatal("selection survived leaving the viewport")
	}
	if cleared != 1 {
		t.Fatalf("cleared=%d, want 1", cleared)
	}

	// Panning back does not restore it.
	surface.bounds = orb.Bound{Min: orb.Point{13, 52}, Max: orb.Point{14, 53}}
	c.HandleMove()
	if c.Selection() != nil {
		t.Fatal("selection restored after returning")
	}
}

func TestMoveDuringFlySuppressed(t *testing.T) {
	t.Parallel()

	surface := &fakeSurface{bounds: orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}}
	c := New(surface, nil)

	// Mid-flight the point is not yet in view; the selection must survive.
	c.FlyTo("Berlin", orb.Point{13.4, 52.5}, orb.Bound{Min: orb.Point{13, 52}, Max: orb.Point{14, 53}})
	c.HandleMove()
	if c.Selection() == nil {
		t.Fatal("selection cleared during fly-to")
	}
}
