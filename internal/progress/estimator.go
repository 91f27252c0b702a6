// Package progress estimates throughput and remaining time of a batch scan
// and publishes snapshots to observers (a terminal line, a log line, or an
// event stream).
package progress

import (
	"math"
	"sync"
	"time"
)

// Snapshot は進捗の瞬間値
type Snapshot struct {
	Total     int           `json:"total"`
	Done      int           `json:"done"`
	Remaining int           `json:"remaining"`
	Findings  int           `json:"findings"`
	RateEMA   float64       `json:"rate_per_sec"`
	RateP50   float64       `json:"rate_p50"`
	RateP10   float64       `json:"rate_p10"`
	ETAP50    time.Duration `json:"eta_p50"`
	ETAP90    time.Duration `json:"eta_p90"`
	Warmup    bool          `json:"warmup"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

type Config struct {
	// Alpha is the smoothing factor of the exponential moving average.
	Alpha      float64
	WindowSize int
	// ETAs stay empty until both warm-up thresholds are reached.
	WarmupSamples  int
	WarmupDuration time.Duration
	NotifyInterval time.Duration
	// SlowFallback scales P50 when the window has no usable P10.
	SlowFallback float64
}

func DefaultConfig() Config {
	return Config{
		Alpha:          0.2,
		WindowSize:     60,
		WarmupSamples:  20,
		WarmupDuration: time.Second,
		NotifyInterval: 100 * time.Millisecond,
		SlowFallback:   0.6,
	}
}

// Estimator tracks throughput of a batch. It keeps an exponential moving
// average of the per-file rate and a window of recent rates whose P50 and
// P10 give the typical and the slow ETA. Safe for concurrent Advance calls.
type Estimator struct {
	mu         sync.Mutex
	cfg        Config
	now        func() time.Time
	start      time.Time
	lastUpdate time.Time
	lastNotify time.Time
	total      int
	done       int
	ema        float64
	rates      *window
}

func NewEstimator(total int, cfg Config) *Estimator {
	return newEstimator(total, cfg, time.Now)
}

func newEstimator(total int, cfg Config, now func() time.Time) *Estimator {
	cfg = cfg.withDefaults()
	t := now()
	return &Estimator{
		cfg:        cfg,
		now:        now,
		start:      t,
		lastUpdate: t,
		total:      total,
		rates:      newWindow(cfg.WindowSize),
	}
}

// withDefaults fills every non-positive field from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	c.Alpha = positive(c.Alpha, d.Alpha)
	c.WindowSize = positive(c.WindowSize, d.WindowSize)
	c.WarmupSamples = positive(c.WarmupSamples, d.WarmupSamples)
	c.WarmupDuration = positive(c.WarmupDuration, d.WarmupDuration)
	c.NotifyInterval = positive(c.NotifyInterval, d.NotifyInterval)
	c.SlowFallback = positive(c.SlowFallback, d.SlowFallback)
	return c
}

func positive[T int | float64 | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

// Advance records delta finished files. The bool reports whether the
// snapshot is due for publishing: NotifyInterval has passed since the last
// one, or the batch just finished.
func (e *Estimator) Advance(delta int) (Snapshot, bool) {
	if delta <= 0 {
		return e.Snapshot(), false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	if now.Before(e.lastUpdate) {
		now = e.lastUpdate
	}
	// Completions in the same instant count as one microsecond apart.
	elapsed := max(now.Sub(e.lastUpdate).Seconds(), 1e-6)
	instant := float64(delta) / elapsed
	if math.IsNaN(instant) || math.IsInf(instant, 0) {
		instant = 0
	}
	e.done += delta
	if e.ema == 0 {
		e.ema = instant
	} else {
		e.ema += e.cfg.Alpha * (instant - e.ema)
	}
	e.rates.Add(instant)
	e.lastUpdate = now

	snap := e.snapshotLocked(now)
	due := snap.Remaining == 0 || now.Sub(e.lastNotify) >= e.cfg.NotifyInterval
	if due {
		e.lastNotify = now
	}
	return snap, due
}

func (e *Estimator) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.now())
}

// Complete marks every file done; a cancelled batch still ends at 100%.
func (e *Estimator) Complete() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	e.done = max(e.done, e.total)
	e.lastNotify = now
	return e.snapshotLocked(now)
}

func (e *Estimator) snapshotLocked(now time.Time) Snapshot {
	s := Snapshot{
		Total:     e.total,
		Done:      e.done,
		Remaining: max(e.total-e.done, 0),
		RateEMA:   e.ema,
		StartedAt: e.start,
		UpdatedAt: now,
		Elapsed:   now.Sub(e.start),
	}
	s.RateP50 = e.rates.Quantile(0.50)
	if s.RateP50 <= 0 {
		s.RateP50 = e.ema
	}
	s.RateP10 = e.rates.Quantile(0.10)
	if s.RateP10 <= 0 {
		s.RateP10 = s.RateP50 * e.cfg.SlowFallback
	}
	s.Warmup = e.done < e.cfg.WarmupSamples || s.Elapsed < e.cfg.WarmupDuration
	if !s.Warmup && s.Remaining > 0 {
		s.ETAP50 = etaFor(s.Remaining, s.RateP50)
		s.ETAP90 = etaFor(s.Remaining, s.RateP10)
	}
	return s
}

// etaFor is the time to finish remaining files at rate files per second,
// saturating instead of overflowing.
func etaFor(remaining int, rate float64) time.Duration {
	if rate <= 0 {
		return 0
	}
	secs := float64(remaining) / rate
	switch {
	case math.IsNaN(secs) || secs < 0:
		return 0
	case secs >= float64(math.MaxInt64)/float64(time.Second):
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs * float64(time.Second))
}

// Tracker couples an Estimator with an Observer for one batch and counts
// the findings reported so far.
type Tracker struct {
	est      *Estimator
	obs      Observer
	mu       sync.Mutex
	findings int
}

// NewTracker returns nil when obs is nil; a nil Tracker does nothing.
func NewTracker(total int, obs Observer) *Tracker {
	if obs == nil {
		return nil
	}
	return &Tracker{est: NewEstimator(total, Config{}), obs: obs}
}

// Step records one finished file with its finding count.
func (t *Tracker) Step(findings int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.findings += findings
	if snap, notify := t.est.Advance(1); notify {
		snap.Findings = t.findings
		t.obs.Publish(snap)
	}
}

// Finish publishes the final snapshot and lets the observer clean up.
func (t *Tracker) Finish() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.est.Complete()
	snap.Findings = t.findings
	t.obs.Done(snap)
}
