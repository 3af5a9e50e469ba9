package geocode

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/joeblew999/plat-viewer/internal/sched"
)

// fakeSearcher records queries and serves canned results.
type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	results map[string][]Place
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeSearcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.queries))
	copy(out, f.queries)
	return out
}

func place(name string) Place {
	return Place{Name: name, Point: orb.Point{13.4, 52.5}, Bound: orb.Bound{
		Min: orb.Point{13.0, 52.3}, Max: orb.Point{13.8, 52.7},
	}}
}

func TestSetQueryDebouncesToSingleFetch(t *testing.T) {
	t.Parallel()

	clock := sched.NewFakeClock()
	searcher := &fakeSearcher{results: map[string][]Place{"berlin": {place("Berlin")}}}
	c := NewController(searcher, clock, nil, nil)

	c.SetQuery("b")
	clock.Advance(100 * time.Millisecond)
	c.SetQuery("ber")
	clock.Advance(100 * time.Millisecond)
	c.SetQuery("berlin")

	if got := searcher.calls(); len(got) != 0 {
		t.Fatalf("fetched before quiet interval: %v", got)
	}

	clock.Advance(DebounceDelay)
	if got := searcher.calls(); len(got) != 1 || got[0] != "berlin" {
		t.Fatalf("calls=%v, want [berlin]", got)
	}
	if got := c.Results(); len(got) != 1 || got[0].Name != "Berlin" {
		t.Fatalf("results=%v", got)
	}
	if c.Searching() {
		t.Fatal("still searching after results applied")
	}
	if c.Highlight() != NoHighlight {
		t.Fatalf("highlight=%d, want NoHighlight", c.Highlight())
	}
}

func TestEmptyQueryClearsWithoutFetch(t *testing.T) {
	t.Parallel()

	clock := sched.NewFakeClock()
	searcher := &fakeSearcher{results: map[string][]Place{"berlin": {place("Berlin")}}}
	c := NewController(searcher, clock, nil, nil)

	c.SetQuery("berlin")
	clock.Advance(DebounceDelay)
	if len(c.Results()) != 1 {
		t.Fatal("setup fetch did not land")
	}

	c.SetQuery("   ")
	if got := c.Results(); len(got) != 0 {
		t.Fatalf("results after clear: %v", got)
	}

	clock.Advance(time.Second)
	if got := searcher.calls(); len(got) != 1 {
		t.Fatalf("calls=%v, want only the setup fetch", got)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	t.Parallel()

	clock := sched.NewFakeClock()

	// Searcher whose first call blocks until released, simulating a slow
	// response that finishes after the query has moved on.
	release := make(chan struct{})
	done := make(chan struct{})
	slow := &blockingSearcher{
		release: release,
		entered: make(chan struct{}),
		results: map[string][]Place{
			"old": {place("Old Town")},
			"new": {place("Newport")},
		},
	}
	c := NewController(slow, clock, nil, nil)

	c.SetQuery("old")
	go func() {
		clock.Advance(DebounceDelay)
		close(done)
	}()
	<-slow.entered

	// The slow fetch is in flight. Supersede it.
	c.SetQuery("new")
	close(release)
	<-done

	clock.Advance(DebounceDelay)
	got := c.Results()
	if len(got) != 1 || got[0].Name != "Newport" {
		t.Fatalf("results=%v, want [Newport]", got)
	}
}

type blockingSearcher struct {
	release <-chan struct{}
	results map[string][]Place

	once    sync.Once
	entered chan struct{}
}

func (b *blockingSearcher) Search(_ context.Context, query string) ([]Place, error) {
	b.once.Do(func() {
		close(b.entered)
		<-b.release
	})
	return b.results[query], nil
}

func TestSearchErrorYieldsEmptyResults(t *testing.T) {
	t.Parallel()

	clock := sched.NewFakeClock()
	searcher := &fakeSearcher{err: errors.New("upstream down")}
	c := NewController(searcher, clock, nil, nil)

	c.SetQuery("berlin")
	clock.Advance(DebounceDelay)

	if got := c.Results(); len(got) != 0 {
		t.Fatalf("results=%v, want empty", got)
	}
	if c.Searching() {
		t.Fatal("searching flag stuck after error")
	}
}

func TestMoveHighlightClamps(t *testing.T) {
	t.Parallel()

	clock := sched.NewFakeClock()
	searcher := &fakeSearcher{results: map[string][]Place{
		"q": {place("A"), place("B"), place("C")},
	}}
	c := NewController(searcher, clock, nil, nil)
	c.SetQuery("q")
	clock.Advance(DebounceDelay)

	c.MoveHighlight(-1)
	if c.Highlight() != NoHighlight {
		t.Fatalf("highlight=%d, want NoHighlight", c.Highlight())
	}
	for i := 0; i < 5; i++ {
		c.MoveHighlight(1)
	}
	if c.Highlight() != 2 {
		t.Fatalf("highlight=%d, want 2", c.Highlight())
	}
	c.MoveHighlight(-1)
	if c.Highlight() != 1 {
		t.Fatalf("highlight=%d, want 1", c.Highlight())
	}
}

func TestCommitSelectsHighlighted(t *testing.T) {
	t.Parallel()

	clock := sched.NewFakeClock()
	searcher := &fakeSearcher{results: map[string][]Place{
		"q": {place("A"), place("B")},
	}}

	var selected []Place
	c := NewController(searcher, clock, func(p Place) { selected = append(selected, p) }, nil)
	c.SetQuery("q")
	clock.Advance(DebounceDelay)

	if c.Commit() {
		t.Fatal("Commit with no highlight reported true")
	}

	c.MoveHighlight(1)
	c.MoveHighlight(1)
	if !c.Commit() {
		t.Fatal("Commit with highlight reported false")
	}
	if len(selected) != 1 || selected[0].Name != "B" {
		t.Fatalf("selected=%v, want [B]", selected)
	}
	if c.Query() != "" || len(c.Results()) != 0 {
		t.Fatal("commit did not clear query and results")
	}
}

func TestClearDropsPendingFetch(t *testing.T) {
	t.Parallel()

	clock := sched.NewFakeClock()
	searcher := &fakeSearcher{results: map[string][]Place{"q": {place("A")}}}
	c := NewController(searcher, clock, nil, nil)

	c.SetQuery("q")
	c.Clear()
	clock.Advance(time.Second)

	if got := searcher.calls(); len(got) != 0 {
		t.Fatalf("calls=%v, want none after Clear", got)
	}
	if c.Query() != "" {
		t.Fatalf("query=%q", c.Query())
	}
}

func TestOnChangeFires(t *testing.T) {
	t.Parallel()

	clock := sched.NewFakeClock()
	searcher := &fakeSearcher{results: map[string][]Place{"q": {place("A")}}}

	changes := 0
	c := NewController(searcher, clock, nil, func() { changes++ })

	c.SetQuery("q")
	clock.Advance(DebounceDelay)
	if changes == 0 {
		t.Fatal("onChange never fired")
	}
}
