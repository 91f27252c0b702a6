// Package session implements the debounced re-scan trigger.
//
// A Session owns the "active document" reference and the pending timer.
// Qualifying events (open, switch to a document, edit of the active
// document) move it to PendingScan and restart the delay; when the delay
// elapses the whole rule table runs over the document text as it is at that
// moment and the presenter receives a replace-all highlight list plus one
// notification per matching rule.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phyten/lintlight/internal/document"
	"github.com/phyten/lintlight/internal/engine"
	"github.com/phyten/lintlight/internal/logging"
	"github.com/phyten/lintlight/internal/rules"
)

// DefaultDelay is the settle time between the last event and the scan.
const DefaultDelay = 500 * time.Millisecond

// Document is the host's view of an open text document.
type Document interface {
	URI() string
	Language() string
	Text() string
}

// versioned is implemented by documents that track an edit counter.
type versioned interface {
	Version() int
}

// snapshotter lets a document hand over text and version atomically
// (document.Buffer does).
type snapshotter interface {
	Snapshot() *document.Snapshot
}

// Presenter receives scan output. SetHighlights replaces everything
// previously shown for uri; an empty list clears.
type Presenter interface {
	SetHighlights(uri string, hs []engine.Highlight)
	Notify(message string)
}

// Timer is a cancellable pending callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock schedules with time.AfterFunc.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// State は Session の状態
type State int

const (
	Idle State = iota
	PendingScan
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingScan:
		return "pending"
	}
	return "unknown"
}

// Option configures a Session.
type Option func(*Session)

// WithDelay sets the debounce delay. Non-positive values keep the default.
func WithDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithClock replaces the timer source.
func WithClock(c Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger used for scheduling and scan records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session is one editor's trigger context. The zero value is not usable;
// build with New.
type Session struct {
	table     *rules.Table
	presenter Presenter
	delay     time.Duration
	clock     Clock
	logger    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	active Document
	timer  Timer
	gen    uint64
	state  State
	closed bool
	scans  int
	last   *engine.Result

	// scanMu serializes scans; at most one runs at a time.
	scanMu sync.Mutex
}

// New returns an idle session with no active document.
func New(table *rules.Table, presenter Presenter, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		table:     table,
		presenter: presenter,
		delay:     DefaultDelay,
		clock:     RealClock{},
		logger:    logging.Discard(),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Delay returns the configured debounce delay.
func (s *Session) Delay() time.Duration { return s.delay }

// Open handles a newly opened document: it becomes active and a scan is scheduled.
func (s *Session) Open(doc Document) {
	if doc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.active = doc
	s.scheduleLocked("open")
}

// Switch changes the active document. nil means no editor is active: the
// pending timer is dropped and nothing is scanned.
func (s *Session) Switch(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if doc == nil {
		s.active = nil
		s.stopLocked()
		s.logger.Debug("no active document")
		return
	}
	s.active = doc
	s.scheduleLocked("switch")
}

// Edit reports a text change. Changes to anything but the active document
// are ignored.
func (s *Session) Edit(doc Document) {
	if doc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.active == nil || s.active.URI() != doc.URI() {
		return
	}
	s.active = doc
	s.scheduleLocked("edit")
}

func (s *Session) scheduleLocked(reason string) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.state = PendingScan
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })
	s.logger.Debug("scan scheduled", "reason", reason, "uri", s.active.URI(), "delay", s.delay)
}

func (s *Session) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.state = Idle
}

// fire runs the scan for generation gen. It reports whether a scan was
// published.
func (s *Session) fire(gen uint64) bool {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	s.mu.Lock()
	if s.closed || gen != s.gen || s.state != PendingScan || s.active == nil {
		s.mu.Unlock()
		return false
	}
	doc := s.active
	s.timer = nil
	s.state = Idle
	s.mu.Unlock()

	snap := snapshotOf(doc)
	res, err := engine.Run(s.ctx, snap, s.table)
	if err != nil {
		s.logger.Debug("scan abandoned", "uri", snap.URI, "err", err)
		return false
	}
	for _, re := range res.Errors {
		s.logger.Warn("rule failed", "uri", snap.URI, "rule", re.Rule, "err", re.Message)
	}

	s.mu.Lock()
	s.scans++
	s.last = res
	s.mu.Unlock()

	s.presenter.SetHighlights(snap.URI, engine.Highlights(res))
	for _, n := range res.Notifications() {
		s.presenter.Notify(n)
	}
	s.logger.Info("scanned", "uri", snap.URI, "version", snap.Version,
		"findings", res.Total, "rules", len(res.Summaries), "elapsed_ms", res.ElapsedMS)
	return true
}

func snapshotOf(doc Document) *document.Snapshot {
	if sn, ok := doc.(snapshotter); ok {
		return sn.Snapshot()
	}
	version := 0
	if v, ok := doc.(versioned); ok {
		version = v.Version()
	}
	return document.NewSnapshot(doc.URI(), doc.Language(), version, doc.Text())
}

// Flush runs a pending scan now instead of waiting for the timer.
// It returns false when nothing was pending.
func (s *Session) Flush() bool {
	s.mu.Lock()
	if s.closed || s.state != PendingScan {
		s.mu.Unlock()
		return false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	gen := s.gen
	s.mu.Unlock()
	return s.fire(gen)
}

// Close drops any pending scan and waits for an in-flight one to finish.
// Later events are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopLocked()
	s.active = nil
	s.mu.Unlock()
	s.cancel()

	// wait for a running scan
	s.scanMu.Lock()
	defer s.scanMu.Unlock()
}

// State returns the current trigger state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Scans returns how many scans have been published.
func (s *Session) Scans() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scans
}

// Active returns the active document or nil.
func (s *Session) Active() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// LastResult returns the most recently published scan result.
func (s *Session) LastResult() *engine.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
