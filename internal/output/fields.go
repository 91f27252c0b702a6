package output

import (
	"fmt"
	"strings"
)

type Field struct {
	Key    string
	Header string
}

type FieldSelection struct {
	Fields   []Field
	ShowText bool
}

var fieldRegistry = map[string]string{
	"location": "LOCATION",
	"file":     "FILE",
	"line":     "LINE",
	"col":      "COL",
	"end":      "END",
	"rule":     "RULE",
	"message":  "MESSAGE",
	"text":     "TEXT",
	"lang":     "LANG",
}

// DefaultFieldKeys は --fields 未指定時の列
var DefaultFieldKeys = []string{"location", "rule", "message"}

// ResolveFields parses a comma separated --fields value. An empty value
// selects the default columns, plus TEXT when withText is set.
func ResolveFields(raw string, withText bool) (FieldSelection, error) {
	raw = strings.TrimSpace(raw)
	var keys []string
	if raw == "" {
		keys = append(keys, DefaultFieldKeys...)
		if withText {
			keys = append(keys, "text")
		}
	} else {
		for _, part := range strings.Split(raw, ",") {
			name := strings.TrimSpace(part)
			if name == "" {
				return FieldSelection{}, fmt.Errorf("invalid fields: empty entry")
			}
			keys = append(keys, strings.ToLower(name))
		}
	}
	sel := FieldSelection{Fields: make([]Field, 0, len(keys))}
	for _, key := range keys {
		header, ok := fieldRegistry[key]
		if !ok {
			return FieldSelection{}, fmt.Errorf("unknown field: %s", key)
		}
		sel.Fields = append(sel.Fields, Field{Key: key, Header: header})
		if key == "text" {
			sel.ShowText = true
		}
	}
	return sel, nil
}

// Headers returns the column titles.
func Headers(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Header
	}
	return out
}

// RowValues returns row's cells in field order.
func RowValues(r Row, fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = r.Value(f.Key)
	}
	return out
}
