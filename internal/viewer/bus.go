package viewer

import (
	"sync"

	"github.com/joeblew999/plat-viewer/internal/camera"
)

// Topic names a piece of viewer state that changed.
type Topic string

const (
	TopicStyle     Topic = "style"     // themed style document regenerated
	TopicResults   Topic = "results"   // search results, highlight or searching flag
	TopicSelection Topic = "selection" // active place pill set or cleared
	TopicCapture   Topic = "capture"   // capturing/captured flags
	TopicCamera    Topic = "camera"    // camera command for the rendering surface
)

// Event announces a state change to SSE subscribers. Camera events carry
// the command the rendering surface must execute.
type Event struct {
	Topic   Topic
	Command *camera.Command
}

// EventBus is a simple fan-out pub/sub for viewer state changes.
type EventBus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan Event]struct{})}
}

// Publish sends an event to all subscribers (non-blocking).
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribe returns a buffered channel that receives events.
func (b *EventBus) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}
