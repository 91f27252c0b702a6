package progress

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

type Observer interface {
	Publish(Snapshot)
	Done(Snapshot)
}

// ObserverFunc receives Publish and Done alike.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) Publish(s Snapshot) { f(s) }
func (f ObserverFunc) Done(s Snapshot)    { f(s) }

// ShouldShowProgress decides whether a batch scan reports progress: never
// with no, always with force, otherwise only when stdout and stderr are both
// terminals (a redirected report stays clean).
func ShouldShowProgress(force, no bool, stdout, stderr io.Writer) bool {
	switch {
	case no:
		return false
	case force:
		return true
	}
	return isTTY(stdout) && isTTY(stderr)
}

// NewAutoObserver redraws one status line on a terminal w; otherwise each
// snapshot becomes a log record.
func NewAutoObserver(w io.Writer, logger *slog.Logger) Observer {
	if isTTY(w) {
		return &lineObserver{w: w}
	}
	return logObserver{logger: logger}
}

// lineObserver は端末の 1 行を上書きし続ける
type lineObserver struct {
	mu sync.Mutex
	w  io.Writer
}

func (o *lineObserver) Publish(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = io.WriteString(o.w, "\r\x1b[K"+renderLine(s))
}

func (o *lineObserver) Done(Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = io.WriteString(o.w, "\r\x1b[K")
}

type logObserver struct {
	logger *slog.Logger
}

func (o logObserver) Publish(s Snapshot) {
	o.logger.Info("scan progress", snapshotAttrs(s)...)
}

func (o logObserver) Done(s Snapshot) {
	o.logger.Info("scan progress done", snapshotAttrs(s)...)
}

func snapshotAttrs(s Snapshot) []any {
	attrs := []any{
		"done", s.Done,
		"total", s.Total,
		"findings", s.Findings,
		"elapsed_ms", s.Elapsed.Milliseconds(),
	}
	if !s.Warmup {
		attrs = append(attrs,
			"rate", math.Round(s.RateEMA*10)/10,
			"eta_p50_s", math.Round(s.ETAP50.Seconds()),
			"eta_p90_s", math.Round(s.ETAP90.Seconds()))
	}
	return attrs
}

// renderLine: "[scan]  25% 10/40 files, 3 findings, 12.5/s ETA 00:01:30 (P90 00:02:00)".
// Rate and ETA read as dashes during warm-up.
func renderLine(s Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[scan] %3d%% %d/%d files, %d findings, ", percent(s.Done, s.Total), s.Done, s.Total, s.Findings)
	if s.Warmup || s.RateEMA <= 0 {
		b.WriteString("--/s")
	} else {
		fmt.Fprintf(&b, "%.1f/s", s.RateEMA)
	}
	if s.Warmup || s.ETAP50 <= 0 {
		b.WriteString(" ETA --:--:--")
		return b.String()
	}
	b.WriteString(" ETA " + clock(s.ETAP50))
	if s.ETAP90 > 0 {
		b.WriteString(" (P90 " + clock(s.ETAP90) + ")")
	}
	return b.String()
}

// clock formats d as HH:MM:SS, capping hours at 99.
func clock(d time.Duration) string {
	secs := max(int(math.Round(d.Seconds())), 0)
	return fmt.Sprintf("%02d:%02d:%02d", min(secs/3600, 99), secs/60%60, secs%60)
}

// percent is done/total in whole percent, clamped to 0..100. An empty batch
// with work done counts as finished.
func percent(done, total int) int {
	switch {
	case done <= 0:
		return 0
	case total <= 0 || done >= total:
		return 100
	}
	return done * 100 / total
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && f != nil && term.IsTerminal(int(f.Fd()))
}
