// Package present holds presentation adapters: the receivers of a session's
// replace-all highlight lists and per-rule notifications.
package present

import (
	"sort"
	"sync"

	"github.com/phyten/lintlight/internal/engine"
	"github.com/phyten/lintlight/internal/session"
)

// Snapshot は 1 ドキュメントについて最後に提示された内容
type Snapshot struct {
	URI           string             `json:"uri"`
	Highlights    []engine.Highlight `json:"highlights"`
	Notifications []string           `json:"notifications"`
	Updates       int                `json:"updates"`
}

// Recorder keeps the latest highlights and notifications per document.
// Notifications are attributed to the document of the preceding
// SetHighlights call, which is how a session delivers them.
type Recorder struct {
	mu      sync.Mutex
	docs    map[string]*Snapshot
	current string
	all     []string
}

func NewRecorder() *Recorder {
	return &Recorder{docs: map[string]*Snapshot{}}
}

func (r *Recorder) SetHighlights(uri string, hs []engine.Highlight) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.docs[uri]
	if !ok {
		s = &Snapshot{URI: uri}
		r.docs[uri] = s
	}
	s.Highlights = append([]engine.Highlight{}, hs...)
	s.Notifications = []string{}
	s.Updates++
	r.current = uri
}

func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, message)
	if s, ok := r.docs[r.current]; ok {
		s.Notifications = append(s.Notifications, message)
	}
}

// Latest returns a copy of what was last presented for uri.
func (r *Recorder) Latest(uri string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.docs[uri]
	if !ok {
		return Snapshot{}, false
	}
	return copySnapshot(s), true
}

// All returns every recorded document, sorted by URI.
func (r *Recorder) All() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Snapshot, 0, len(r.docs))
	for _, s := range r.docs {
		out = append(out, copySnapshot(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// Notifications returns every notification in arrival order.
func (r *Recorder) Notifications() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.all...)
}

// Forget drops the record for uri.
func (r *Recorder) Forget(uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, uri)
	if r.current == uri {
		r.current = ""
	}
}

func copySnapshot(s *Snapshot) Snapshot {
	return Snapshot{
		URI:           s.URI,
		Highlights:    append([]engine.Highlight{}, s.Highlights...),
		Notifications: append([]string{}, s.Notifications...),
		Updates:       s.Updates,
	}
}

type tee []session.Presenter

// Tee fans every call out to each presenter in order.
func Tee(ps ...session.Presenter) session.Presenter {
	out := make(tee, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (t tee) SetHighlights(uri string, hs []engine.Highlight) {
	for _, p := range t {
		p.SetHighlights(uri, hs)
	}
}

func (t tee) Notify(message string) {
	for _, p := range t {
		p.Notify(message)
	}
}
