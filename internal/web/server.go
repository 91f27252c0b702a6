package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/phyten/lintlight/internal/detect"
	"github.com/phyten/lintlight/internal/document"
	"github.com/phyten/lintlight/internal/engine"
	engineopts "github.com/phyten/lintlight/internal/engine/opts"
	"github.com/phyten/lintlight/internal/logging"
	"github.com/phyten/lintlight/internal/progress"
	"github.com/phyten/lintlight/internal/rules"
	"github.com/phyten/lintlight/internal/session"
)

const (
	maxBodyBytes     = 8 << 20
	defaultHeartbeat = 15 * time.Second
	subscriberBuffer = 64
)

// Options configures a Server.
type Options struct {
	Table *rules.Table
	// Delay is the debounce delay of the server's session.
	Delay time.Duration
	// Clock replaces the session timer source (tests).
	Clock session.Clock
	// ScanDefaults seeds /api/scan before query parameters apply.
	ScanDefaults engine.Options
	Logger       *slog.Logger
	Heartbeat    time.Duration
}

// Server bridges an editor plugin to one session over HTTP.
type Server struct {
	table     *rules.Table
	store     *document.Store
	hub       *Hub
	gate      *openDocs
	sess      *session.Session
	defaults  engine.Options
	logger    *slog.Logger
	heartbeat time.Duration
}

func NewServer(o Options) *Server {
	table := o.Table
	if table == nil {
		table = rules.Default()
	}
	logger := o.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	hb := o.Heartbeat
	if hb <= 0 {
		hb = defaultHeartbeat
	}
	store := document.NewStore()
	hub := NewHub()
	gate := &openDocs{store: store, hub: hub}
	sopts := []session.Option{session.WithDelay(o.Delay), session.WithLogger(logger.With("component", "session"))}
	if o.Clock != nil {
		sopts = append(sopts, session.WithClock(o.Clock))
	}
	return &Server{
		table:     table,
		store:     store,
		hub:       hub,
		gate:      gate,
		sess:      session.New(table, gate, sopts...),
		defaults:  o.ScanDefaults,
		logger:    logger,
		heartbeat: hb,
	}
}

func (s *Server) Hub() *Hub                 { return s.hub }
func (s *Server) Session() *session.Session { return s.sess }
func (s *Server) Store() *document.Store    { return s.store }

// openDocs is the session presenter: it passes results to the hub only for
// documents still open in the store. Closing goes through close so a scan
// that finishes after the close cannot bring the document's results back.
type openDocs struct {
	mu    sync.Mutex
	store *document.Store
	hub   *Hub
	// dropping is set while the notifications of a dropped scan arrive.
	dropping bool
}

func (g *openDocs) SetHighlights(uri string, hs []engine.Highlight) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, open := g.store.Get(uri)
	g.dropping = !open
	if g.dropping {
		return
	}
	g.hub.SetHighlights(uri, hs)
}

func (g *openDocs) Notify(message string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dropping {
		return
	}
	g.hub.Notify(message)
}

// close removes uri from the store and forgets its results. It reports
// false when uri was not open.
func (g *openDocs) close(uri string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.store.Close(uri) {
		return false
	}
	g.hub.Forget(uri)
	return true
}

// Close stops the session; pending scans are dropped.
func (s *Server) Close() { s.sess.Close() }

// Handler returns the mux with the API and the viewer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mountViewer(mux)
	mux.HandleFunc("/api/documents", s.handleDocuments)
	mux.HandleFunc("/api/documents/open", s.handleOpen)
	mux.HandleFunc("/api/documents/change", s.handleChange)
	mux.HandleFunc("/api/documents/close", s.handleClose)
	mux.HandleFunc("/api/editor/active", s.handleActive)
	mux.HandleFunc("/api/flush", s.handleFlush)
	mux.HandleFunc("/api/highlights", s.handleHighlights)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/rules", s.handleRules)
	mux.HandleFunc("/api/scan", s.handleScan)
	mux.HandleFunc("/api/scan/stream", s.handleScanStream)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "elapsed_ms", time.Since(start).Milliseconds())
	})
}

type openRequest struct {
	URI      string `json:"uri"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

type changeRequest struct {
	URI  string `json:"uri"`
	Text string `json:"text"`
}

type uriRequest struct {
	URI string `json:"uri"`
}

type documentAck struct {
	URI      string `json:"uri"`
	Language string `json:"language,omitempty"`
	Version  int    `json:"version"`
	State    string `json:"state"`
}

func (s *Server) ack(b *document.Buffer) documentAck {
	return documentAck{URI: b.URI(), Language: b.Language(), Version: b.Version(), State: s.sess.State().String()}
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if !decodePost(w, r, &req) {
		return
	}
	uri := strings.TrimSpace(req.URI)
	if uri == "" {
		httpError(w, http.StatusBadRequest, "uri is required")
		return
	}
	lang := detect.NormalizeLangName(req.Language)
	if lang == "" {
		lang = detect.FromPathAndContent(uri, []byte(req.Text)).Name
	}
	b := s.store.Open(uri, lang, req.Text)
	s.sess.Open(b)
	writeJSON(w, http.StatusAccepted, s.ack(b))
}

func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if !decodePost(w, r, &req) {
		return
	}
	b, err := s.store.Update(strings.TrimSpace(req.URI), req.Text)
	if errors.Is(err, document.ErrNotOpen) {
		httpError(w, http.StatusNotFound, fmt.Sprintf("%s: %q", err, req.URI))
		return
	}
	s.sess.Edit(b)
	writeJSON(w, http.StatusAccepted, s.ack(b))
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	var req uriRequest
	if !decodePost(w, r, &req) {
		return
	}
	uri := strings.TrimSpace(req.URI)
	if !s.gate.close(uri) {
		httpError(w, http.StatusNotFound, fmt.Sprintf("%s: %q", document.ErrNotOpen, uri))
		return
	}
	if a := s.sess.Active(); a != nil && a.URI() == uri {
		s.sess.Switch(nil)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	var req uriRequest
	if !decodePost(w, r, &req) {
		return
	}
	uri := strings.TrimSpace(req.URI)
	if uri == "" {
		s.sess.Switch(nil)
		writeJSON(w, http.StatusAccepted, map[string]string{"state": s.sess.State().String()})
		return
	}
	b, ok := s.store.Get(uri)
	if !ok {
		httpError(w, http.StatusNotFound, fmt.Sprintf("%s: %q", document.ErrNotOpen, uri))
		return
	}
	s.sess.Switch(b)
	writeJSON(w, http.StatusAccepted, s.ack(b))
}

func (s *Server) handleFlush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"scanned": s.sess.Flush()})
}

// documentView is what the viewer renders: the latest presentation of a
// document plus its current text.
type documentView struct {
	URI           string             `json:"uri"`
	Language      string             `json:"language,omitempty"`
	Version       int                `json:"version"`
	Text          string             `json:"text"`
	Highlights    []engine.Highlight `json:"highlights"`
	Notifications []string           `json:"notifications"`
	Updates       int                `json:"updates"`
	Active        bool               `json:"active"`
	Style         engine.Style       `json:"style"`
}

func (s *Server) view(uri string) (documentView, bool) {
	v := documentView{URI: uri, Highlights: []engine.Highlight{}, Notifications: []string{}, Style: engine.HighlightStyle}
	b, open := s.store.Get(uri)
	if open {
		snap := b.Snapshot()
		v.Language = snap.Language
		v.Version = snap.Version
		v.Text = snap.Text()
	}
	snap, seen := s.hub.Latest(uri)
	if seen {
		v.Highlights = snap.Highlights
		v.Notifications = snap.Notifications
		v.Updates = snap.Updates
	}
	if a := s.sess.Active(); a != nil && a.URI() == uri {
		v.Active = true
	}
	return v, open || seen
}

func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	uri := strings.TrimSpace(r.URL.Query().Get("uri"))
	if uri == "" {
		a := s.sess.Active()
		if a == nil {
			httpError(w, http.StatusNotFound, "no active document")
			return
		}
		uri = a.URI()
	}
	v, ok := s.view(uri)
	if !ok {
		httpError(w, http.StatusNotFound, fmt.Sprintf("%s: %q", document.ErrNotOpen, uri))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleDocuments lists every open document for the viewer.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	uris := s.store.URIs()
	out := make([]documentView, 0, len(uris))
	for _, uri := range uris {
		v, _ := s.view(uri)
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": out})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, unsubscribe := s.hub.Subscribe(subscriberBuffer)
	defer unsubscribe()
	s.logger.Debug("event stream opened", "subscribers", s.hub.Subscribers())

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				s.logger.Debug("event stream closed", "err", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev Event) error {
	payload, err := marshalNoEscape(ev.Data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, payload)
	return err
}

type ruleView struct {
	Name       string   `json:"name"`
	Pattern    string   `json:"pattern"`
	IgnoreCase bool     `json:"ignore_case"`
	Detail     string   `json:"detail"`
	Summary    string   `json:"summary"`
	Languages  []string `json:"languages,omitempty"`
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	out := make([]ruleView, 0, s.table.Len())
	for _, rule := range s.table.Rules() {
		d := rule.Def()
		out = append(out, ruleView{
			Name:       d.Name,
			Pattern:    d.Pattern,
			IgnoreCase: d.IgnoreCase,
			Detail:     d.Detail,
			Summary:    d.Summary,
			Languages:  d.Languages,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": out, "style": engine.HighlightStyle})
}

func (s *Server) scanOptions(r *http.Request) (engine.Options, error) {
	opts, err := engineopts.FromQuery(s.defaults, r.URL.Query())
	if err != nil {
		return opts, err
	}
	opts.Observer = nil
	if err := engineopts.Normalize(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	opts, err := s.scanOptions(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := engine.RunFiles(r.Context(), s.table, opts)
	if err != nil {
		s.logger.Warn("batch scan failed", "paths", opts.Paths, "err", err)
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("batch scan", "paths", opts.Paths, "files", len(res.Files), "findings", res.Total, "errors", res.ErrorCount)
	writeJSON(w, http.StatusOK, res)
}

// handleScanStream runs the same batch scan as handleScan and streams
// "progress" events followed by one "result" (or "error") event.
func (s *Server) handleScanStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	opts, err := s.scanOptions(r)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	var mu sync.Mutex
	send := func(name string, v any) {
		mu.Lock()
		defer mu.Unlock()
		if err := writeEvent(w, Event{Name: name, Data: v}); err == nil {
			flusher.Flush()
		}
	}
	opts.Observer = progress.ObserverFunc(func(snap progress.Snapshot) { send("progress", snap) })
	res, err := engine.RunFiles(r.Context(), s.table, opts)
	if err != nil {
		send("error", map[string]string{"error": err.Error()})
		return
	}
	send("result", res)
}

func decodePost(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	httpError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func httpError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	payload, err := marshalNoEscape(v)
	if err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write(payload)
	_, _ = w.Write([]byte("\n"))
}

// marshalNoEscape keeps <, > and & as-is; the viewer escapes on render.
func marshalNoEscape(v any) ([]byte, error) {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(b.String(), "\n")), nil
}
