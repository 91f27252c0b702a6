package model

import "testing"

func TestSpanOverlaps(t *testing.T) {
	cases := map[string]struct {
		a, b Span
		want bool
	}{
		"重なる":   {Span{Start: 0, End: 5}, Span{Start: 4, End: 9}, true},
		"接するだけ": {Span{Start: 0, End: 5}, Span{Start: 5, End: 9}, false},
		"内包":    {Span{Start: 2, End: 8}, Span{Start: 3, End: 4}, true},
		"離れている": {Span{Start: 0, End: 2}, Span{Start: 7, End: 9}, false},
	}
	for name, tc := range cases {
		if got := tc.a.Overlaps(tc.b); got != tc.want {
			t.Fatalf("%s: Overlaps=%v want %v", name, got, tc.want)
		}
		if got := tc.b.Overlaps(tc.a); got != tc.want {
			t.Fatalf("%s: 対称でありません", name)
		}
	}
	if (Span{Start: 4, End: 10}).Len() != 6 {
		t.Fatal("Len mismatch")
	}
}

func TestMatchGroup(t *testing.T) {
	m := Match{Groups: []Group{{Value: "userId", OK: true}, {}}}
	if m.Group(1) != "userId" {
		t.Fatalf("group1=%q", m.Group(1))
	}
	for _, n := range []int{0, 2, 3, -1} {
		if got := m.Group(n); got != "" {
			t.Fatalf("group%d=%q want empty", n, got)
		}
	}
}

func TestRuleSummaryNotification(t *testing.T) {
	s := RuleSummary{FirstLine: 12, Message: "TODO comments left in: TODO a, TODO b"}
	if got := s.Notification(); got != "Line 12: TODO comments left in: TODO a, TODO b" {
		t.Fatalf("notification=%q", got)
	}
}
