// Package capture produces square screenshots of the rendered map: it
// center-crops the surface's backing canvas at physical resolution and
// scales the crop to a fixed logical output size.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/joeblew999/plat-viewer/internal/sched"
)

// OutputSize is the logical edge length of the exported square, in pixels.
const OutputSize = 1000

// ConfirmWindow is how long the captured confirmation stays set.
const ConfirmWindow = 2 * time.Second

// Canvas is the drawable surface contract: the backing image at physical
// pixel dimensions and the device pixel ratio that produced it.
type Canvas interface {
	Image() (image.Image, error)
	PixelRatio() float64
}

// Result is one finished capture.
type Result struct {
	Filename string
	PNG      []byte
}

// Recorder runs captures and tracks the transient capturing/captured flags.
type Recorder struct {
	clock sched.Clock

	// onChange fires when the flags change; may be nil.
	onChange func()

	mu        sync.Mutex
	capturing bool
	captured  bool
	confirm   sched.Timer
}

// NewRecorder creates a recorder using the given clock for the confirmation
// window.
func NewRecorder(clock sched.Clock, onChange func()) *Recorder {
	return &Recorder{clock: clock, onChange: onChange}
}

// Capturing reports whether a capture is in progress.
func (r *Recorder) Capturing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capturing
}

// Captured reports whether the post-success confirmation window is open.
func (r *Recorder) Captured() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.captured
}

// Capture reads the canvas, crops and scales it, and returns the encoded
// image. On any failure the capturing flag is cleared and no result is
// produced.
func (r *Recorder) Capture(canvas Canvas) (Result, error) {
	r.mu.Lock()
	r.capturing = true
	r.mu.Unlock()
	r.notify()

	result, err := r.capture(canvas)

	r.mu.Lock()
	r.capturing = false
	if err == nil {
		r.captured = true
		if r.confirm != nil {
			r.confirm.Stop()
		}
		r.confirm = r.clock.AfterFunc(ConfirmWindow, r.clearConfirm)
	}
	r.mu.Unlock()
	r.notify()

	return result, err
}

func (r *Recorder) capture(canvas Canvas) (Result, error) {
	src, err := canvas.Image()
	if err != nil {
		return Result{}, fmt.Errorf("reading canvas: %w", err)
	}

	ratio := canvas.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}

	crop := cropRect(src.Bounds(), int(float64(OutputSize)*ratio))

	out := image.NewRGBA(image.Rect(0, 0, OutputSize, OutputSize))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), src, crop, xdraw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return Result{}, fmt.Errorf("encoding capture: %w", err)
	}

	name := fmt.Sprintf("map-capture-%s.png", r.clock.Now().Format("20060102-150405"))
	return Result{Filename: name, PNG: buf.Bytes()}, nil
}

// cropRect centers a square of the requested physical size in the source
// bounds, clamped so the crop never exceeds the source.
func cropRect(src image.Rectangle, size int) image.Rectangle {
	w, h := src.Dx(), src.Dy()
	cw, ch := size, size
	if cw > w {
		cw = w
	}
	if ch > h {
		ch = h
	}
	x0 := src.Min.X + (w-cw)/2
	y0 := src.Min.Y + (h-ch)/2
	return image.Rect(x0, y0, x0+cw, y0+ch)
}

func (r *Recorder) clearConfirm() {
	r.mu.Lock()
	r.captured = false
	r.confirm = nil
	r.mu.Unlock()
	r.notify()
}

func (r *Recorder) notify() {
	if r.onChange != nil {
		r.onChange()
	}
}
