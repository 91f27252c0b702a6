package main

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/phyten/lintlight/internal/output"
)

type SortKey struct {
	Name string
	Desc bool
}

type SortSpec struct {
	Keys []SortKey
}

// rowOrder は並べ替えキーごとの比較関数
var rowOrder = map[string]func(a, b *output.Row) int{
	"file":    func(a, b *output.Row) int { return cmp.Compare(a.File, b.File) },
	"line":    func(a, b *output.Row) int { return cmp.Compare(a.Line, b.Line) },
	"col":     func(a, b *output.Row) int { return cmp.Compare(a.Col, b.Col) },
	"rule":    func(a, b *output.Row) int { return cmp.Compare(a.Rule, b.Rule) },
	"message": func(a, b *output.Row) int { return cmp.Compare(a.Message, b.Message) },
	"lang":    func(a, b *output.Row) int { return cmp.Compare(a.Language, b.Language) },
}

// sortAliases maps alternative spellings to one or more keys.
var sortAliases = map[string][]string{
	"location": {"file", "line", "col"},
	"language": {"lang"},
	"column":   {"col"},
}

// ParseSortSpec parses --sort: comma separated keys, each optionally
// prefixed with + (ascending, the default) or - (descending).
func ParseSortSpec(raw string) (SortSpec, error) {
	var spec SortSpec
	if strings.TrimSpace(raw) == "" {
		return spec, nil
	}
	for _, part := range strings.Split(raw, ",") {
		token := strings.TrimSpace(part)
		desc := strings.HasPrefix(token, "-")
		token = strings.TrimSpace(strings.TrimLeft(token, "+-"))
		if token == "" {
			return SortSpec{}, errors.New("invalid sort key: empty segment")
		}
		name := strings.ToLower(token)
		names, ok := sortAliases[name]
		if !ok {
			if _, known := rowOrder[name]; !known {
				return SortSpec{}, fmt.Errorf("invalid sort key: %s", token)
			}
			names = []string{name}
		}
		for _, n := range names {
			spec.Keys = append(spec.Keys, SortKey{Name: n, Desc: desc})
		}
	}
	return spec, nil
}

// ApplySort orders rows by the spec, breaking ties by location. An empty
// spec keeps the scan order (file, then rule table order).
func ApplySort(rows []output.Row, spec SortSpec) {
	if len(spec.Keys) == 0 {
		return
	}
	keys := append(slices.Clone(spec.Keys), SortKey{Name: "file"}, SortKey{Name: "line"}, SortKey{Name: "col"})
	slices.SortStableFunc(rows, func(a, b output.Row) int {
		for _, k := range keys {
			if c := rowOrder[k.Name](&a, &b); c != 0 {
				if k.Desc {
					return -c
				}
				return c
			}
		}
		return 0
	})
}
