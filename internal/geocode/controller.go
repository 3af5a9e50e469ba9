package geocode

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/joeblew999/plat-viewer/internal/sched"
)

// DebounceDelay is how long the query must be quiet before a search fires.
const DebounceDelay = 420 * time.Millisecond

// NoHighlight is the highlight index meaning no result is highlighted.
const NoHighlight = -1

// Selection is the committed search result: the place name and target
// coordinate the camera flew to.
type Selection struct {
	Name  string
	Place Place
}

// Controller drives interactive place search: it debounces query edits,
// issues at most one fetch per settled query, and tracks the result list
// with its keyboard highlight. Every query edit advances a generation
// counter; a completed fetch is applied only if its generation is still
// current, so a stale response can never overwrite newer results.
type Controller struct {
	searcher Searcher
	debounce *sched.Debouncer

	// onSelect is invoked when a result is committed, with the chosen place.
	onSelect func(Place)
	// onChange is invoked after any observable state change.
	onChange func()

	mu        sync.Mutex
	query     string
	gen       uint64
	searching bool
	results   []Place
	highlight int
}

// NewController creates a search controller. onSelect receives committed
// results (typically the camera's fly-to); onChange fires after state
// changes and may be nil.
func NewController(searcher Searcher, clock sched.Clock, onSelect func(Place), onChange func()) *Controller {
	return &Controller{
		searcher:  searcher,
		debounce:  sched.NewDebouncer(clock, DebounceDelay),
		onSelect:  onSelect,
		onChange:  onChange,
		highlight: NoHighlight,
	}
}

// SetQuery handles a query text edit. An empty (after trimming) query
// clears results immediately without a request; anything else restarts the
// debounce window.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	c.query = query
	c.gen++
	gen := c.gen

	if strings.TrimSpace(query) == "" {
		c.results = nil
		c.highlight = NoHighlight
		c.searching = false
		c.mu.Unlock()
		c.debounce.Stop()
		c.notify()
		return
	}
	c.mu.Unlock()

	c.debounce.Trigger(func() { c.search(gen, query) })
}

// search issues the fetch for one query generation. It runs on the
// debounce timer's goroutine.
func (c *Controller) search(gen uint64, query string) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.searching = true
	c.mu.Unlock()
	c.notify()

	places, err := c.searcher.Search(context.Background(), strings.TrimSpace(query))
	if err != nil {
		// Failures surface as an empty result list, nothing more.
		places = nil
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.searching = false
	c.results = places
	c.highlight = NoHighlight
	c.mu.Unlock()
	c.notify()
}

// Query returns the current query text.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Searching reports whether a fetch is in flight.
func (c *Controller) Searching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searching
}

// Results returns the current result list.
func (c *Controller) Results() []Place {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Place, len(c.results))
	copy(out, c.results)
	return out
}

// Highlight returns the highlighted result index, NoHighlight for none.
func (c *Controller) Highlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlight
}

// MoveHighlight shifts the highlight by delta (Down=+1, Up=-1), clamped to
// [NoHighlight, len(results)-1].
func (c *Controller) MoveHighlight(delta int) {
	c.mu.Lock()
	h := c.highlight + delta
	if h < NoHighlight {
		h = NoHighlight
	}
	if max := len(c.results) - 1; h > max {
		h = max
	}
	c.highlight = h
	c.mu.Unlock()
	c.notify()
}

// Commit selects the highlighted result, if any. It reports whether a
// selection was made.
func (c *Controller) Commit() bool {
	c.mu.Lock()
	if c.highlight == NoHighlight || c.highlight >= len(c.results) {
		c.mu.Unlock()
		return false
	}
	place := c.results[c.highlight]
	c.mu.Unlock()

	c.Select(place)
	return true
}

// Select commits a result: the query and result list are cleared, the
// place becomes the active selection via onSelect.
func (c *Controller) Select(place Place) {
	c.mu.Lock()
	c.gen++
	c.query = ""
	c.results = nil
	c.highlight = NoHighlight
	c.searching = false
	c.mu.Unlock()

	c.debounce.Stop()
	if c.onSelect != nil {
		c.onSelect(place)
	}
	c.notify()
}

// Clear empties the query and result list (the Escape action). An in-flight
// fetch is not aborted; its completion is discarded by the generation guard.
func (c *Controller) Clear() {
	c.mu.Lock()
	c.gen++
	c.query = ""
	c.results = nil
	c.highlight = NoHighlight
	c.searching = false
	c.mu.Unlock()

	c.debounce.Stop()
	c.notify()
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
