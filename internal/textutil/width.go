// Package textutil measures and shapes text for terminal tables and
// caret markers: display width, truncation, padding.
package textutil

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// CSI sequences and OSC sequences ended by BEL or ST.
var escapeSeq = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// StripANSI removes terminal escape sequences.
func StripANSI(s string) string {
	if strings.IndexByte(s, 0x1b) < 0 {
		return s
	}
	return escapeSeq.ReplaceAllString(s, "")
}

// graphemes calls fn with each grapheme cluster of s and its cell width.
// fn returns false to stop.
func graphemes(s string, fn func(cluster string, width int) bool) {
	state := -1
	for s != "" {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		if !fn(cluster, runewidth.StringWidth(cluster)) {
			return
		}
	}
}

// VisibleWidth returns the number of terminal cells s occupies, ignoring
// escape sequences.
func VisibleWidth(s string) int {
	total := 0
	graphemes(StripANSI(s), func(_ string, w int) bool {
		total += w
		return true
	})
	return total
}

// TruncateByWidth shortens s to at most w cells on a grapheme boundary. When
// it cuts and ellipsis fits in w, the result ends with ellipsis. A cut string
// loses its escape sequences.
func TruncateByWidth(s string, w int, ellipsis string) string {
	if w <= 0 {
		return ""
	}
	if VisibleWidth(s) <= w {
		return s
	}
	budget, tail := w, ""
	if ew := runewidth.StringWidth(ellipsis); ellipsis != "" && ew <= w {
		budget, tail = w-ew, ellipsis
	}
	var b strings.Builder
	used := 0
	graphemes(StripANSI(s), func(cluster string, cw int) bool {
		if used+cw > budget {
			return false
		}
		b.WriteString(cluster)
		used += cw
		return true
	})
	return b.String() + tail
}

// OneLine collapses line breaks and tabs so a multi-line match fits a table cell.
func OneLine(s string) string {
	if !strings.ContainsAny(s, "\r\n\t") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}

// PadRight pads s with trailing spaces to w visible cells.
func PadRight(s string, w int) string { return s + fill(w-VisibleWidth(s)) }

// PadLeft pads s with leading spaces to w visible cells.
func PadLeft(s string, w int) string { return fill(w-VisibleWidth(s)) + s }

func fill(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
