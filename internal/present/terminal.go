package present

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/phyten/lintlight/internal/document"
	"github.com/phyten/lintlight/internal/engine"
	"github.com/phyten/lintlight/internal/termcolor"
	"github.com/phyten/lintlight/internal/textutil"
)

const tabWidth = 4

// TextSource resolves a document URI to its current text.
type TextSource func(uri string) (string, bool)

// Terminal renders highlights as an annotated listing: each affected line
// with the highlighted runes in the border colour, a caret line under it,
// and a legend of hover messages. Notifications go to Notices.
type Terminal struct {
	Out     io.Writer
	Notices io.Writer
	Painter termcolor.Painter
	Source  TextSource
	// Clear emits a clear-screen sequence before each listing (watch mode).
	Clear bool

	mu sync.Mutex
}

type lineMark struct {
	start, end int // rune indexes within the line, half-open
	rule       string
}

func (t *Terminal) SetHighlights(uri string, hs []engine.Highlight) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Out == nil {
		return
	}
	var b strings.Builder
	if t.Clear && t.Painter.Enabled {
		b.WriteString("\x1b[H\x1b[2J")
	}
	b.WriteString(t.Painter.Paint(termcolor.HeaderStyle(), uri))
	if len(hs) == 0 {
		b.WriteString(": no findings\n")
		_, _ = io.WriteString(t.Out, b.String())
		return
	}
	fmt.Fprintf(&b, ": %d finding(s)\n", len(hs))

	text := ""
	if t.Source != nil {
		text, _ = t.Source(uri)
	}
	snap := document.NewSnapshot(uri, "", 0, text)
	if text != "" {
		t.writeListing(&b, snap, hs)
	}
	color := engine.HighlightStyle.BorderColor(t.Painter.Scheme.Dark())
	for _, h := range hs {
		loc := fmt.Sprintf("%d:%d", h.Span.StartLine, h.Span.StartCol)
		fmt.Fprintf(&b, "  %s %s %s\n",
			t.Painter.Border(color, textutil.PadRight(loc, 7)),
			t.Painter.Rule(h.Rule, h.Rule),
			t.Painter.Paint(termcolor.MessageStyle(), h.Hover))
	}
	_, _ = io.WriteString(t.Out, b.String())
}

func (t *Terminal) writeListing(b *strings.Builder, snap *document.Snapshot, hs []engine.Highlight) {
	marks := map[int][]lineMark{}
	for _, h := range hs {
		for l := h.Span.StartLine; l <= h.Span.EndLine && l <= snap.LineCount(); l++ {
			if l < 1 {
				continue
			}
			lineLen := len([]rune(snap.Line(l)))
			start, end := 0, lineLen
			if l == h.Span.StartLine {
				start = h.Span.StartCol - 1
			}
			if l == h.Span.EndLine {
				end = h.Span.EndCol - 1
			}
			if l != h.Span.StartLine && l == h.Span.EndLine && end == 0 {
				continue
			}
			marks[l] = append(marks[l], lineMark{start: start, end: end, rule: h.Rule})
		}
	}
	lines := make([]int, 0, len(marks))
	for l := range marks {
		lines = append(lines, l)
	}
	sort.Ints(lines)
	gutter := len(fmt.Sprint(snap.LineCount()))
	color := engine.HighlightStyle.BorderColor(t.Painter.Scheme.Dark())
	for _, l := range lines {
		line := snap.Line(l)
		ms := marks[l]
		num := textutil.PadLeft(fmt.Sprint(l), gutter)
		fmt.Fprintf(b, "%s | %s\n", num, renderLine(line, ms, func(s string) string { return t.Painter.Border(color, s) }))
		for _, m := range ms {
			fmt.Fprintf(b, "%s | %s\n", strings.Repeat(" ", gutter), t.Painter.Border(color, textutil.Marker(line, m.start, m.end, tabWidth, '^')))
		}
	}
}

// renderLine expands tabs and paints the runes covered by any mark.
func renderLine(line string, ms []lineMark, paint func(string) string) string {
	runes := []rune(line)
	covered := make([]bool, len(runes))
	for _, m := range ms {
		for i := m.start; i < m.end && i < len(runes); i++ {
			if i >= 0 {
				covered[i] = true
			}
		}
	}
	var out, seg strings.Builder
	col := 0
	inMark := false
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		if inMark {
			out.WriteString(paint(seg.String()))
		} else {
			out.WriteString(seg.String())
		}
		seg.Reset()
	}
	for i, r := range runes {
		if covered[i] != inMark {
			flush()
			inMark = covered[i]
		}
		if r == '\t' {
			n := tabWidth - col%tabWidth
			seg.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		seg.WriteRune(r)
		col += textutil.VisibleWidth(string(r))
	}
	flush()
	return out.String()
}

func (t *Terminal) Notify(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := t.Notices
	if w == nil {
		w = t.Out
	}
	if w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", t.Painter.Paint(termcolor.HeaderStyle(), "notice:"), message)
}
