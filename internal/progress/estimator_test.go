package progress

import (
	"bytes"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestAdvanceは並行呼び出しでも完了数を一度ずつ返す(t *testing.T) {
	const files = 64
	est := NewEstimator(files, Config{NotifyInterval: time.Nanosecond})

	done := make([]int, files)
	var wg sync.WaitGroup
	for i := range done {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, _ := est.Advance(1)
			done[i] = snap.Done
		}(i)
	}
	wg.Wait()

	slices.Sort(done)
	for i, d := range done {
		if d != i+1 {
			t.Fatalf("完了数が連番になっていません: %v", done)
		}
	}
	if snap := est.Snapshot(); snap.Done != files || snap.Remaining != 0 {
		t.Fatalf("最終スナップショットが一致しません: %+v", snap)
	}
}

func TestPercent(t *testing.T) {
	cases := []struct{ done, total, want int }{
		{0, 10, 0}, {5, 10, 50}, {10, 10, 100}, {5, 4, 100}, {3, 0, 100}, {0, 0, 0},
	}
	for _, tc := range cases {
		if got := percent(tc.done, tc.total); got != tc.want {
			t.Fatalf("percent(%d,%d)=%d want %d", tc.done, tc.total, got, tc.want)
		}
	}
}

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestEstimatorはウォームアップ後にETAを出す(t *testing.T) {
	clk := &stepClock{now: time.Unix(1_700_000_000, 0)}
	est := newEstimator(40, Config{WarmupSamples: 10, WarmupDuration: time.Second}, clk.Now)

	var snap Snapshot
	for i := 0; i < 9; i++ {
		clk.Add(100 * time.Millisecond)
		snap, _ = est.Advance(1)
	}
	if !snap.Warmup || snap.ETAP50 != 0 {
		t.Fatalf("ウォームアップ中は ETA を出さないはずです: %+v", snap)
	}
	for i := 0; i < 11; i++ {
		clk.Add(100 * time.Millisecond)
		snap, _ = est.Advance(1)
	}
	if snap.Warmup {
		t.Fatalf("ウォームアップが終わっていません: %+v", snap)
	}
	if snap.Done != 20 || snap.Remaining != 20 {
		t.Fatalf("件数が一致しません: %+v", snap)
	}
	// 10 files/s, 20 remaining
	if snap.ETAP50 != 2*time.Second {
		t.Fatalf("ETA P50 が一致しません: %v", snap.ETAP50)
	}
	if done := est.Complete(); done.Done != 40 || done.Remaining != 0 {
		t.Fatalf("Complete 後の値が一致しません: %+v", done)
	}
}

func TestTrackerは観測者に通知する(t *testing.T) {
	var (
		mu    sync.Mutex
		snaps []Snapshot
	)
	obs := ObserverFunc(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		snaps = append(snaps, s)
	})
	tr := NewTracker(3, obs)
	tr.Step(2)
	tr.Step(0)
	tr.Step(1)
	tr.Finish()
	mu.Lock()
	defer mu.Unlock()
	if len(snaps) < 2 {
		t.Fatalf("通知回数が少なすぎます: %d", len(snaps))
	}
	last := snaps[len(snaps)-1]
	if last.Done != 3 || last.Remaining != 0 || last.Findings != 3 {
		t.Fatalf("最終スナップショットが一致しません: %+v", last)
	}

	var nilTracker *Tracker
	nilTracker.Step(1)
	nilTracker.Finish()
	if NewTracker(3, nil) != nil {
		t.Fatal("観測者が無いときは nil を返すべきです")
	}
}

func TestRenderLine(t *testing.T) {
	s := Snapshot{Total: 40, Done: 10, Findings: 3, RateEMA: 12.5, ETAP50: 90 * time.Second, ETAP90: 2 * time.Minute}
	want := "[scan]  25% 10/40 files, 3 findings, 12.5/s ETA 00:01:30 (P90 00:02:00)"
	if got := renderLine(s); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	s.Warmup = true
	if got := renderLine(s); got != "[scan]  25% 10/40 files, 3 findings, --/s ETA --:--:--" {
		t.Fatalf("warmup line: %q", got)
	}
	if got := clock(1000 * time.Hour); got != "99:00:00" {
		t.Fatalf("clock=%q", got)
	}
}

func TestObserverの出力先(t *testing.T) {
	var buf bytes.Buffer
	if ShouldShowProgress(false, false, &buf, &buf) {
		t.Fatal("端末でなければ表示しないはずです")
	}
	if !ShouldShowProgress(true, false, &buf, &buf) || ShouldShowProgress(true, true, &buf, &buf) {
		t.Fatal("--progress と --no-progress の扱いが一致しません")
	}
	obs := NewAutoObserver(&buf, slog.New(slog.NewTextHandler(&buf, nil)))
	obs.Publish(Snapshot{Total: 2, Done: 1, Findings: 4, Warmup: true})
	obs.Done(Snapshot{Total: 2, Done: 2, Findings: 4})
	out := buf.String()
	if !strings.Contains(out, "msg=\"scan progress\" done=1 total=2 findings=4") || !strings.Contains(out, "scan progress done") {
		t.Fatalf("ログ出力が一致しません: %s", out)
	}
	if strings.Count(out, "eta_p50_s") != 1 {
		t.Fatalf("ウォームアップ中は ETA を出さないはずです: %s", out)
	}
}

func TestWindowは古い値から捨てる(t *testing.T) {
	w := newWindow(4)
	if w.Quantile(0.5) != 0 || w.Len() != 0 {
		t.Fatal("空の窓は 0 を返すはずです")
	}
	for _, v := range []float64{5, 1, math.NaN(), 3, math.Inf(1), 2, 4} {
		w.Add(v)
	}
	if w.Len() != 4 {
		t.Fatalf("len=%d", w.Len())
	}
	// 5 は追い出され、NaN と Inf は記録されない
	cases := map[float64]float64{0: 1, 0.5: 2.5, 1: 4, -1: 1, 2: 4, 1.0 / 3: 2}
	for q, want := range cases {
		if got := w.Quantile(q); math.Abs(got-want) > 1e-9 {
			t.Fatalf("Quantile(%v)=%v want %v", q, got, want)
		}
	}
}

func TestWindowの大きさは最低1(t *testing.T) {
	w := newWindow(0)
	w.Add(7)
	w.Add(9)
	if w.Len() != 1 || w.Quantile(0.5) != 9 {
		t.Fatalf("len=%d q=%v", w.Len(), w.Quantile(0.5))
	}
}
