package output

import (
	"io"
	"strings"

	"github.com/phyten/lintlight/internal/termcolor"
	"github.com/phyten/lintlight/internal/textutil"
)

// TableOptions は表形式出力の設定
type TableOptions struct {
	Painter termcolor.Painter
	// MaxCell truncates each cell to this display width (0 = unlimited).
	MaxCell int
}

// WriteTable aligns columns by display width, so wide characters and
// colour codes do not break the layout.
func WriteTable(w io.Writer, rows []Row, sel FieldSelection, opts TableOptions) error {
	headers := Headers(sel.Fields)
	cells := make([][]string, len(rows))
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = textutil.VisibleWidth(h)
	}
	for i, r := range rows {
		vals := RowValues(r, sel.Fields)
		for j := range vals {
			vals[j] = textutil.OneLine(vals[j])
			if opts.MaxCell > 0 {
				vals[j] = textutil.TruncateByWidth(vals[j], opts.MaxCell, "…")
			}
			if vw := textutil.VisibleWidth(vals[j]); vw > widths[j] {
				widths[j] = vw
			}
		}
		cells[i] = vals
	}

	p := opts.Painter
	line := make([]string, len(headers))
	for j, h := range headers {
		line[j] = p.Paint(termcolor.HeaderStyle(), h)
	}
	if err := writeLine(w, line, widths); err != nil {
		return err
	}
	for i, vals := range cells {
		for j, f := range sel.Fields {
			switch f.Key {
			case "rule":
				line[j] = p.Rule(rows[i].Rule, vals[j])
			case "message":
				line[j] = p.Paint(termcolor.MessageStyle(), vals[j])
			default:
				line[j] = vals[j]
			}
		}
		if err := writeLine(w, line, widths); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, cells []string, widths []int) error {
	var b strings.Builder
	for j, c := range cells {
		if j > 0 {
			b.WriteString("  ")
		}
		if j == len(cells)-1 {
			b.WriteString(c)
			continue
		}
		b.WriteString(textutil.PadRight(c, widths[j]))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
