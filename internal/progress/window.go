package progress

import (
	"math"
	"slices"
)

// window は直近 cap(buf) 件の処理速度を保持するリングバッファ
type window struct {
	buf  []float64
	next int
	full bool
}

func newWindow(size int) *window {
	return &window{buf: make([]float64, max(size, 1))}
}

// Add records v, evicting the oldest sample once full. NaN and ±Inf are ignored.
func (w *window) Add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	w.buf[w.next] = v
	w.next = (w.next + 1) % len(w.buf)
	if w.next == 0 {
		w.full = true
	}
}

func (w *window) Len() int {
	if w.full {
		return len(w.buf)
	}
	return w.next
}

// Quantile linearly interpolates between the closest ranks; 0 when empty.
func (w *window) Quantile(q float64) float64 {
	n := w.Len()
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(w.buf[:n])
	slices.Sort(sorted)
	pos := min(max(q, 0), 1) * float64(n-1)
	lo := int(pos)
	if lo == n-1 {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}
