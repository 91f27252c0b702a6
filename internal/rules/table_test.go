package rules

import (
	"errors"
	"reflect"
	"testing"
)

func names(t *Table) []string {
	var out []string
	for _, r := range t.Rules() {
		out = append(out, r.Name())
	}
	return out
}

func mk(name string) *Rule {
	return MustNew(Def{Name: name, Pattern: name, Summary: name})
}

func TestNewTableRejectsDuplicates(t *testing.T) {
	_, err := NewTable(mk("a"), mk("b"), mk("A"))
	if !errors.Is(err, ErrInvalidRule) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := NewTable(mk("a"), nil); err == nil {
		t.Fatal("expected error for nil rule")
	}
}

func TestTableLookupAndOrder(t *testing.T) {
	tbl, err := NewTable(mk("b"), mk("a"), mk("c"))
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if got := names(tbl); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("order=%v", got)
	}
	if r, ok := tbl.Lookup(" A "); !ok || r.Name() != "a" {
		t.Fatalf("Lookup failed: %v %v", r, ok)
	}
	if _, ok := tbl.Lookup("zzz"); ok {
		t.Fatal("unexpected lookup hit")
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len=%d", tbl.Len())
	}
}

func TestTableWithoutAndWith(t *testing.T) {
	tbl, _ := NewTable(mk("a"), mk("b"), mk("c"))
	less := tbl.Without("B", "missing", "")
	if got := names(less); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("Without=%v", got)
	}
	if tbl.Len() != 3 {
		t.Fatal("Without must not modify the receiver")
	}
	more, err := less.With(mk("d"))
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if got := names(more); !reflect.DeepEqual(got, []string{"a", "c", "d"}) {
		t.Fatalf("With=%v", got)
	}
	if _, err := more.With(mk("a")); err == nil {
		t.Fatal("With should reject a duplicate name")
	}
}

func TestTableUnknown(t *testing.T) {
	tbl, _ := NewTable(mk("a"))
	if got := tbl.Unknown("a", "x", " "); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("Unknown=%v", got)
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	tbl, _ := NewTable(mk("a"), mk("b"))
	rs := tbl.Rules()
	rs[0] = nil
	if tbl.Rules()[0] == nil {
		t.Fatal("Rules must return a copy")
	}
}
