package output

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
)

// RowWriter renders finding rows in one --output format.
type RowWriter func(w io.Writer, rows []Row, sel FieldSelection) error

var rowWriters = map[string]RowWriter{
	"csv":    WriteCSV,
	"md":     WriteMarkdownTable,
	"ndjson": func(w io.Writer, rows []Row, _ FieldSelection) error { return WriteNDJSON(w, rows) },
}

// RowWriterFor returns the writer for a streaming row format (csv, md,
// ndjson). table, json and show need more than rows and are not listed.
func RowWriterFor(format string) (RowWriter, bool) {
	fn, ok := rowWriters[format]
	return fn, ok
}

// WriteCSV renders rows as RFC 4180 CSV with CRLF line endings.
func WriteCSV(w io.Writer, rows []Row, sel FieldSelection) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, Headers(sel.Fields))
	for _, r := range rows {
		records = append(records, RowValues(r, sel.Fields))
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw.WriteAll(records)
}

// WriteNDJSON writes one JSON object per row. Every row carries all fields
// so consumers get a stable schema.
func WriteNDJSON(w io.Writer, rows []Row) error {
	enc := newEncoder(w)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := newEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// matched text often holds markup (<b>, &&), keep it verbatim.
func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// WriteMarkdownTable renders rows as a GitHub Flavored Markdown table.
// Matched text goes into code spans.
func WriteMarkdownTable(w io.Writer, rows []Row, sel FieldSelection) error {
	var b strings.Builder
	line := func(cells []string) {
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	headers := Headers(sel.Fields)
	line(headers)
	rule := make([]string, len(headers))
	for i := range rule {
		rule[i] = "---"
	}
	line(rule)
	for _, r := range rows {
		cells := RowValues(r, sel.Fields)
		for i, f := range sel.Fields {
			cells[i] = mdCell(cells[i], f.Key == "text")
		}
		line(cells)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

var mdCellReplacer = strings.NewReplacer("\r\n", "<br>", "\r", "", "\n", "<br>", "|", `\|`)

// mdCell keeps a cell on one table row; code cells become code spans.
func mdCell(s string, code bool) string {
	if s == "" {
		return ""
	}
	s = mdCellReplacer.Replace(s)
	if code {
		s = codeSpan(s)
	}
	return s
}

// codeSpan wraps s in one more backtick than its longest backtick run.
func codeSpan(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r != '`' {
			run = 0
			continue
		}
		run++
		longest = max(longest, run)
	}
	fence := strings.Repeat("`", longest+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}
