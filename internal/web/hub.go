package web

import (
	"sync"

	"github.com/phyten/lintlight/internal/engine"
	"github.com/phyten/lintlight/internal/present"
)

// Event is one server-sent event.
type Event struct {
	Name string
	Data any
}

type highlightsEvent struct {
	URI        string             `json:"uri"`
	Highlights []engine.Highlight `json:"highlights"`
}

type notifyEvent struct {
	URI     string `json:"uri,omitempty"`
	Message string `json:"message"`
}

// Hub is the session presenter for HTTP clients: it records the latest
// state per document and fans every update out to event-stream subscribers.
type Hub struct {
	rec *present.Recorder

	mu      sync.Mutex
	subs    map[chan Event]struct{}
	current string
	dropped int
}

func NewHub() *Hub {
	return &Hub{rec: present.NewRecorder(), subs: map[chan Event]struct{}{}}
}

func (h *Hub) SetHighlights(uri string, hs []engine.Highlight) {
	h.rec.SetHighlights(uri, hs)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = uri
	h.broadcastLocked(Event{Name: "highlights", Data: highlightsEvent{URI: uri, Highlights: append([]engine.Highlight{}, hs...)}})
}

func (h *Hub) Notify(message string) {
	h.rec.Notify(message)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(Event{Name: "notify", Data: notifyEvent{URI: h.current, Message: message}})
}

// broadcastLocked never blocks; a subscriber whose buffer is full misses the event.
func (h *Hub) broadcastLocked(ev Event) {
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.dropped++
		}
	}
}

// Subscribe registers a listener. The returned func unsubscribes and
// closes the channel.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped counts events not delivered to slow subscribers.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

func (h *Hub) Latest(uri string) (present.Snapshot, bool) { return h.rec.Latest(uri) }

func (h *Hub) All() []present.Snapshot { return h.rec.All() }

func (h *Hub) Forget(uri string) {
	h.rec.Forget(uri)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == uri {
		h.current = ""
	}
}
