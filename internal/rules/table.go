package rules

import (
	"fmt"
	"strings"
)

// Table is an ordered, immutable collection of rules. Order only decides the
// order in which findings and summaries are reported.
type Table struct {
	rules []*Rule
	index map[string]int // lower(name) -> position
}

// NewTable builds a table from rules, rejecting nil entries and duplicate names.
func NewTable(rs ...*Rule) (*Table, error) {
	t := &Table{rules: make([]*Rule, 0, len(rs)), index: make(map[string]int, len(rs))}
	for _, r := range rs {
		if r == nil {
			return nil, fmt.Errorf("%w: nil rule", ErrInvalidRule)
		}
		key := strings.ToLower(r.Name())
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("%w: duplicate rule name %q", ErrInvalidRule, r.Name())
		}
		t.index[key] = len(t.rules)
		t.rules = append(t.rules, r)
	}
	return t, nil
}

// Rules returns the rules in table order. The slice is a copy.
func (t *Table) Rules() []*Rule {
	if t == nil {
		return nil
	}
	return append([]*Rule(nil), t.rules...)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Lookup finds a rule by name, case-insensitively.
func (t *Table) Lookup(name string) (*Rule, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return t.rules[i], true
}

// Without returns a new table minus the named rules. Unknown names are ignored.
func (t *Table) Without(names ...string) *Table {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			drop[n] = struct{}{}
		}
	}
	kept := make([]*Rule, 0, t.Len())
	for _, r := range t.Rules() {
		if _, ok := drop[strings.ToLower(r.Name())]; ok {
			continue
		}
		kept = append(kept, r)
	}
	out, _ := NewTable(kept...)
	return out
}

// With returns a new table with rs appended after the existing rules.
func (t *Table) With(rs ...*Rule) (*Table, error) {
	return NewTable(append(t.Rules(), rs...)...)
}

// Unknown returns the names that do not resolve to a rule in t.
func (t *Table) Unknown(names ...string) []string {
	var out []string
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		if _, ok := t.Lookup(n); !ok {
			out = append(out, n)
		}
	}
	return out
}
