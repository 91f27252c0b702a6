package session

import (
	"sync"
	"testing"
	"time"

	"github.com/phyten/lintlight/internal/document"
	"github.com/phyten/lintlight/internal/engine"
	"github.com/phyten/lintlight/internal/rules"
)

// manualClock fires callbacks only when Advance moves past their deadline.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	clock    *manualClock
	deadline time.Duration
	f        func()
	stopped  bool
	fired    bool
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, deadline: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward by d and runs due callbacks in deadline order.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.deadline <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func (c *manualClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type recorded struct {
	uri string
	hs  []engine.Highlight
}

type fakePresenter struct {
	mu     sync.Mutex
	sets   []recorded
	notes  []string
	hsByID map[string][]engine.Highlight
}

func (p *fakePresenter) SetHighlights(uri string, hs []engine.Highlight) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sets = append(p.sets, recorded{uri: uri, hs: hs})
	if p.hsByID == nil {
		p.hsByID = map[string][]engine.Highlight{}
	}
	p.hsByID[uri] = hs
}

func (p *fakePresenter) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = append(p.notes, message)
}

func newTestSession(t *testing.T) (*Session, *manualClock, *fakePresenter) {
	t.Helper()
	clk := &manualClock{}
	p := &fakePresenter{}
	s := New(rules.Default(), p, WithClock(clk), WithDelay(500*time.Millisecond))
	t.Cleanup(s.Close)
	return s, clk, p
}

func TestDebounceBurstProducesOneScan(t *testing.T) {
	s, clk, p := newTestSession(t)
	buf := document.NewBuffer("mem://a.js", "javascript", "")
	s.Open(buf)
	for i := 0; i < 5; i++ {
		clk.Advance(100 * time.Millisecond)
		buf.Replace("if (userId) {}")
		s.Edit(buf)
	}
	if s.State() != PendingScan {
		t.Fatalf("state=%v want pending", s.State())
	}
	// 499ms after the last edit: still waiting.
	clk.Advance(499 * time.Millisecond)
	if s.Scans() != 0 {
		t.Fatalf("scan fired early: %d", s.Scans())
	}
	clk.Advance(time.Millisecond)
	if s.Scans() != 1 {
		t.Fatalf("scans=%d want 1", s.Scans())
	}
	if s.State() != Idle {
		t.Fatalf("state=%v want idle", s.State())
	}
	clk.Advance(5 * time.Second)
	if s.Scans() != 1 || clk.pending() != 0 {
		t.Fatalf("extra scans=%d pending=%d", s.Scans(), clk.pending())
	}
	if len(p.sets) != 1 || len(p.sets[0].hs) != 1 {
		t.Fatalf("presenter sets=%+v", p.sets)
	}
	want := `Line 1: ID of 0 would evaluate to false. Consider adding "!= null" for if-statements containing IDs: userId`
	if len(p.notes) != 1 || p.notes[0] != want {
		t.Fatalf("notes=%q", p.notes)
	}
	if res := s.LastResult(); res == nil || res.Version != 6 {
		t.Fatalf("last result=%+v", res)
	}
}

func TestScanReadsTextAtFireTime(t *testing.T) {
	s, clk, p := newTestSession(t)
	buf := document.NewBuffer("mem://a.sql", "sql", "SELECT 1")
	s.Open(buf)
	// text changes without an Edit event before the timer fires
	buf.Replace("SELECT SCOPE_IDENTITY()")
	clk.Advance(500 * time.Millisecond)
	if s.Scans() != 1 || len(p.notes) != 1 || p.notes[0] != "Line 1: "+rules.ScopeIdentitySummary {
		t.Fatalf("scans=%d notes=%q", s.Scans(), p.notes)
	}
}

func TestSwitchAwayDoesNotScan(t *testing.T) {
	s, clk, p := newTestSession(t)
	s.Open(document.NewBuffer("mem://a.js", "", "console.log(1)"))
	s.Switch(nil)
	if s.State() != Idle || s.Active() != nil {
		t.Fatalf("state=%v active=%v", s.State(), s.Active())
	}
	clk.Advance(time.Second)
	if s.Scans() != 0 || len(p.sets) != 0 {
		t.Fatalf("switch to nothing should not scan: scans=%d", s.Scans())
	}
	if s.Flush() {
		t.Fatal("Flush with nothing pending should report false")
	}
}

func TestSwitchToDocumentScansIt(t *testing.T) {
	s, clk, p := newTestSession(t)
	a := document.NewBuffer("mem://a.js", "", "console.log(1)")
	b := document.NewBuffer("mem://b.js", "", "// TODO b")
	s.Open(a)
	clk.Advance(200 * time.Millisecond)
	s.Switch(b)
	clk.Advance(500 * time.Millisecond)
	if s.Scans() != 1 || p.sets[0].uri != "mem://b.js" {
		t.Fatalf("scans=%d sets=%+v", s.Scans(), p.sets)
	}
}

func TestEditOfInactiveDocumentIgnored(t *testing.T) {
	s, clk, _ := newTestSession(t)
	a := document.NewBuffer("mem://a.js", "", "x")
	other := document.NewBuffer("mem://other.js", "", "console.log(1)")
	s.Edit(a) // no active document yet
	if s.State() != Idle {
		t.Fatal("edit without an active document should not schedule")
	}
	s.Open(a)
	clk.Advance(500 * time.Millisecond)
	s.Edit(other)
	if s.State() != Idle || clk.pending() != 0 {
		t.Fatalf("edit of a background document scheduled a scan")
	}
	clk.Advance(time.Second)
	if s.Scans() != 1 {
		t.Fatalf("scans=%d want 1", s.Scans())
	}
}

func TestCleanScanClearsHighlights(t *testing.T) {
	s, clk, p := newTestSession(t)
	buf := document.NewBuffer("mem://a.js", "", "console.log(1)")
	s.Open(buf)
	clk.Advance(500 * time.Millisecond)
	if len(p.hsByID["mem://a.js"]) != 1 {
		t.Fatalf("highlights=%+v", p.hsByID)
	}
	buf.Replace("const a = 1;")
	s.Edit(buf)
	clk.Advance(500 * time.Millisecond)
	hs, ok := p.hsByID["mem://a.js"]
	if !ok || hs == nil || len(hs) != 0 {
		t.Fatalf("expected an empty replace-all list, got %#v", hs)
	}
	if len(p.notes) != 1 {
		t.Fatalf("clean scan should not notify, notes=%q", p.notes)
	}
}

func TestFlushRunsPendingScanNow(t *testing.T) {
	s, clk, _ := newTestSession(t)
	s.Open(document.NewBuffer("mem://a.js", "", "console.log(1)"))
	if !s.Flush() {
		t.Fatal("Flush should run the pending scan")
	}
	if s.Scans() != 1 || s.State() != Idle {
		t.Fatalf("scans=%d state=%v", s.Scans(), s.State())
	}
	clk.Advance(time.Second)
	if s.Scans() != 1 {
		t.Fatalf("the stopped timer must not scan again, scans=%d", s.Scans())
	}
}

func TestCloseDropsPendingAndIgnoresEvents(t *testing.T) {
	s, clk, _ := newTestSession(t)
	buf := document.NewBuffer("mem://a.js", "", "console.log(1)")
	s.Open(buf)
	s.Close()
	clk.Advance(time.Second)
	s.Open(buf)
	s.Edit(buf)
	clk.Advance(time.Second)
	if s.Scans() != 0 || s.State() != Idle || s.Flush() {
		t.Fatalf("closed session scanned: scans=%d state=%v", s.Scans(), s.State())
	}
	s.Close()
}

func TestSessionsAreIndependent(t *testing.T) {
	s1, clk1, _ := newTestSession(t)
	s2, _, _ := newTestSession(t)
	s1.Open(document.NewBuffer("mem://a.js", "", "console.log(1)"))
	s2.Open(document.NewBuffer("mem://b.js", "", "console.log(2)"))
	clk1.Advance(time.Second)
	if s1.Scans() != 1 || s2.Scans() != 0 || s2.State() != PendingScan {
		t.Fatalf("s1=%d s2=%d/%v", s1.Scans(), s2.Scans(), s2.State())
	}
}

func TestRealClock(t *testing.T) {
	p := &fakePresenter{}
	s := New(rules.Default(), p, WithDelay(10*time.Millisecond))
	defer s.Close()
	if s.Delay() != 10*time.Millisecond {
		t.Fatalf("delay=%v", s.Delay())
	}
	s.Open(document.NewBuffer("mem://a.js", "", "// TODO real"))
	deadline := time.Now().Add(2 * time.Second)
	for s.Scans() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("real clock never fired")
		}
		time.Sleep(5 * time.Millisecond)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.notes) != 1 || p.notes[0] != "Line 1: TODO comments left in: TODO real" {
		t.Fatalf("notes=%q", p.notes)
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || PendingScan.String() != "pending" || State(9).String() != "unknown" {
		t.Fatal("state names")
	}
}
