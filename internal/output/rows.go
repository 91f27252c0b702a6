package output

import (
	"fmt"
	"strconv"

	"github.com/phyten/lintlight/internal/engine"
)

// Row は検出結果 1 件を表形式に平坦化したもの
type Row struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	EndLine  int    `json:"end_line"`
	EndCol   int    `json:"end_col"`
	Rule     string `json:"rule"`
	Message  string `json:"message"`
	Text     string `json:"text"`
	Language string `json:"lang,omitempty"`
}

// Rows flattens a batch result in file order, then engine order.
func Rows(res *engine.BatchResult) []Row {
	if res == nil {
		return nil
	}
	var out []Row
	for _, fr := range res.Files {
		out = append(out, FileRows(fr)...)
	}
	return out
}

// FileRows flattens one file's findings.
func FileRows(fr engine.FileResult) []Row {
	out := make([]Row, 0, len(fr.Findings))
	for _, f := range fr.Findings {
		out = append(out, Row{
			File:     fr.File,
			Line:     f.Span.StartLine,
			Col:      f.Span.StartCol,
			EndLine:  f.Span.EndLine,
			EndCol:   f.Span.EndCol,
			Rule:     f.Rule,
			Message:  f.Message,
			Text:     f.Text,
			Language: fr.Language,
		})
	}
	return out
}

// Value returns the cell for a field key.
func (r Row) Value(key string) string {
	switch key {
	case "location":
		return fmt.Sprintf("%s:%d:%d", r.File, r.Line, r.Col)
	case "file":
		return r.File
	case "line":
		return strconv.Itoa(r.Line)
	case "col":
		return strconv.Itoa(r.Col)
	case "end":
		return fmt.Sprintf("%d:%d", r.EndLine, r.EndCol)
	case "rule":
		return r.Rule
	case "message":
		return r.Message
	case "text":
		return r.Text
	case "lang":
		return r.Language
	default:
		return ""
	}
}
