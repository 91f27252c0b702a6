package engine

import (
	"reflect"
	"strings"
	"testing"

	"github.com/phyten/lintlight/internal/model"
	"github.com/phyten/lintlight/internal/rules"
)

func rule(t *testing.T, name string) *rules.Rule {
	t.Helper()
	r, ok := rules.Default().Lookup(name)
	if !ok {
		t.Fatalf("rule %s not in catalogue", name)
	}
	return r
}

func TestScanNoMatchYieldsNoSummary(t *testing.T) {
	for _, r := range rules.Default().Rules() {
		matches, sum := Scan("const total = price * qty;\n", r)
		if len(matches) != 0 || sum != nil {
			t.Fatalf("%s: expected nothing, got %v %v", r.Name(), matches, sum)
		}
	}
}

func TestScanIfIDTruthiness(t *testing.T) {
	r := rule(t, rules.IfIDTruthiness)
	matches, sum := Scan("if (userId) { doThing(); }", r)
	if len(matches) != 1 {
		t.Fatalf("matches=%v", matches)
	}
	m := matches[0]
	if m.Span.Start != 0 || m.Span.End != 11 || m.Text != "if (userId)" {
		t.Fatalf("span=%+v text=%q", m.Span, m.Text)
	}
	if m.Group(1) != "userId" {
		t.Fatalf("group1=%q", m.Group(1))
	}
	if got := Detail(r, m); got != "An ID of 0 would evaluate to false. Consider: userId != null" {
		t.Fatalf("detail=%q", got)
	}
	if sum == nil || !reflect.DeepEqual(sum.Captures, []string{"userId"}) {
		t.Fatalf("summary=%+v", sum)
	}
	want := `ID of 0 would evaluate to false. Consider adding "!= null" for if-statements containing IDs: userId`
	if sum.Message != want {
		t.Fatalf("summary message=%q", sum.Message)
	}
}

func TestScanIfIDTruthinessNegatives(t *testing.T) {
	r := rule(t, rules.IfIDTruthiness)
	for _, text := range []string{
		"if (userId != null) {}",
		"if (userId == 0) {}",
		"if (orderId > 0) {}",
		"if (user.id.length) {}",
		"while (userId) {}",
	} {
		if matches, _ := Scan(text, r); len(matches) != 0 {
			t.Fatalf("%q: unexpected matches %v", text, matches)
		}
	}
}

func TestScanAssignmentInIf(t *testing.T) {
	r := rule(t, rules.AssignmentInIf)
	matches, sum := Scan("if (x = 5) { }", r)
	if len(matches) != 1 {
		t.Fatalf("matches=%v", matches)
	}
	m := matches[0]
	if m.Group(1) != "x" || m.Group(2) != "5" {
		t.Fatalf("groups=%+v", m.Groups)
	}
	if got := Detail(r, m); got != "Should be x == 5 or x === 5" {
		t.Fatalf("detail=%q", got)
	}
	if m.Span != (model.Span{Start: 0, End: 10}) {
		t.Fatalf("span=%+v", m.Span)
	}
	if sum.Message != "Assignment inside an if condition, probably meant a comparison: x" {
		t.Fatalf("summary=%q", sum.Message)
	}
	for _, text := range []string{"if (a == b) {}", "if (a === b) {}", "if (a != b) {}", "if (a !== b) {}", "if (a <= b) {}", "if (a >= b) {}"} {
		if matches, _ := Scan(text, r); len(matches) != 0 {
			t.Fatalf("%q: unexpected matches %v", text, matches)
		}
	}
}

func TestScanTodoCommentBothSyntaxes(t *testing.T) {
	r := rule(t, rules.TodoComment)
	for _, text := range []string{"// TODO fix this", "-- TODO fix this"} {
		matches, sum := Scan(text, r)
		if len(matches) != 1 || matches[0].Span.Start != 0 {
			t.Fatalf("%q: matches=%v", text, matches)
		}
		if matches[0].Group(1) != "TODO fix this" {
			t.Fatalf("%q: group1=%q", text, matches[0].Group(1))
		}
		if sum.Message != "TODO comments left in: TODO fix this" {
			t.Fatalf("summary=%q", sum.Message)
		}
	}
	if matches, _ := Scan("// todo lower case", r); len(matches) != 0 {
		t.Fatalf("TODO marker is case-sensitive, got %v", matches)
	}
}

func TestScanScopeIdentityFixedSummary(t *testing.T) {
	r := rule(t, rules.ScopeIdentity)
	matches, sum := Scan("SELECT SCOPE_IDENTITY()", r)
	if len(matches) != 1 || matches[0].Span.Start != 7 || matches[0].Span.End != 23 {
		t.Fatalf("matches=%v", matches)
	}
	if len(matches[0].Groups) != 0 {
		t.Fatalf("expected no groups, got %v", matches[0].Groups)
	}
	if sum.Message != rules.ScopeIdentitySummary {
		t.Fatalf("summary=%q", sum.Message)
	}
	if len(sum.Captures) != 0 {
		t.Fatalf("captures=%v", sum.Captures)
	}
	if m, _ := Scan("select @@identity from t", r); len(m) != 1 {
		t.Fatalf("@@identity should match case-insensitively, got %v", m)
	}
}

func TestScanCatalogueSamples(t *testing.T) {
	cases := []struct {
		rule   string
		text   string
		groups []string // group-1 of each match
	}{
		{rules.LegacyGet, "$.get('/a'); jQuery.get('/b'); $http.get(u); axios.get (u)", []string{"$", "jQuery", "$http", "axios"}},
		{rules.RowCount, "UPDATE t SET a = 1\nIF @@ROWCOUNT = 0 PRINT 'none'\nif @@rowcount > 1", []string{"", ""}},
		{rules.MissingEncryption, "CREATE PROCEDURE dbo.SaveUser\n  @Id INT\nAS BEGIN\n  SELECT 1\nEND", []string{"dbo.SaveUser"}},
		{rules.MissingEncryption, "CREATE PROC [dbo].[Load] AS\nBEGIN\nEND", []string{"[dbo].[Load]"}},
		{rules.MissingEncryption, "CREATE PROCEDURE dbo.SaveUser\n  @Id INT\nWITH ENCRYPTION\nAS BEGIN\nEND", nil},
		{rules.MissingEncryption, "CREATE PROCEDURE dbo.SaveUser /*WITH ENCRYPTION*/ AS BEGIN END", nil},
		{rules.ConsoleLog, "console.log('x'); console.debug (y); logger.log(z)", []string{"console.log", "console.debug"}},
		{rules.IDNumericCoercion, "parseInt(req.userId, 10) + Number(orderId) + parseInt(width)", []string{"req.userId", "orderId"}},
		{rules.TodoComment, "x = 1; // TODO: later\ny = 2; -- TODO again", []string{"TODO: later", "TODO again"}},
	}
	for _, tc := range cases {
		r := rule(t, tc.rule)
		matches, sum := Scan(tc.text, r)
		var got []string
		for _, m := range matches {
			got = append(got, m.Group(1))
		}
		if !reflect.DeepEqual(got, tc.groups) {
			t.Fatalf("%s on %q: group1 values=%q want %q", tc.rule, tc.text, got, tc.groups)
		}
		if (sum == nil) != (len(tc.groups) == 0) {
			t.Fatalf("%s: summary presence mismatch: %+v", tc.rule, sum)
		}
	}
}

func TestScanSummaryJoinsCaptures(t *testing.T) {
	r := rule(t, rules.IfIDTruthiness)
	text := "if (userId) {}\nif (orderId) {}\nif (ok) {}\nif (item.parentId) {}"
	_, sum := Scan(text, r)
	if sum == nil {
		t.Fatal("expected summary")
	}
	want := []string{"userId", "orderId", "item.parentId"}
	if !reflect.DeepEqual(sum.Captures, want) {
		t.Fatalf("captures=%v", sum.Captures)
	}
	if !strings.HasSuffix(sum.Message, ": userId, orderId, item.parentId") {
		t.Fatalf("message=%q", sum.Message)
	}
	if sum.Count != 3 || sum.FirstOffset != 0 {
		t.Fatalf("count=%d first=%d", sum.Count, sum.FirstOffset)
	}
}

func TestScanAbsentGroupRendersEmpty(t *testing.T) {
	r := rules.MustNew(rules.Def{
		Name:    "alt",
		Pattern: `(a)|(b)`,
		Detail:  "[{group1}|{group2}]",
		Summary: "seen: {joined}",
	})
	matches, sum := Scan("b a", r)
	if len(matches) != 2 {
		t.Fatalf("matches=%v", matches)
	}
	if matches[0].Groups[0].OK || !matches[0].Groups[1].OK {
		t.Fatalf("group participation wrong: %+v", matches[0].Groups)
	}
	if got := Detail(r, matches[0]); got != "[|b]" {
		t.Fatalf("detail=%q", got)
	}
	if got := Detail(r, matches[1]); got != "[a|]" {
		t.Fatalf("detail=%q", got)
	}
	if sum.Message != "seen: a" {
		t.Fatalf("summary=%q", sum.Message)
	}
}

func TestScanZeroLengthMatchesTerminate(t *testing.T) {
	r := rules.MustNew(rules.Def{Name: "empty", Pattern: `x*`, Summary: "s"})
	matches, _ := Scan("abc", r)
	if len(matches) != 4 {
		t.Fatalf("expected an empty match at each of 4 positions, got %v", matches)
	}
	for i, m := range matches {
		if m.Span.Start != i || m.Span.Len() != 0 {
			t.Fatalf("match %d span=%+v", i, m.Span)
		}
	}
	matches, _ = Scan("xx", r)
	if len(matches) != 2 || matches[0].Span != (model.Span{Start: 0, End: 2}) || matches[1].Span != (model.Span{Start: 2, End: 2}) {
		t.Fatalf("matches=%v", matches)
	}
	lookahead := rules.MustNew(rules.Def{Name: "la", Pattern: `(?=a)`, Summary: "s"})
	matches, _ = Scan("aaa", lookahead)
	if len(matches) != 3 {
		t.Fatalf("lookahead matches=%v", matches)
	}
}

func TestScanNonOverlappingLeftToRight(t *testing.T) {
	r := rules.MustNew(rules.Def{Name: "aa", Pattern: `aa`, Summary: "s"})
	matches, _ := Scan("aaaaa", r)
	if len(matches) != 2 || matches[0].Span.Start != 0 || matches[1].Span.Start != 2 {
		t.Fatalf("matches=%v", matches)
	}
	for _, rr := range rules.Default().Rules() {
		ms, _ := Scan(mixedSample, rr)
		for i := 1; i < len(ms); i++ {
			if ms[i].Span.Start < ms[i-1].Span.End || ms[i-1].Span.Overlaps(ms[i].Span) {
				t.Fatalf("%s: overlapping spans %+v %+v", rr.Name(), ms[i-1].Span, ms[i].Span)
			}
		}
	}
}

func TestScanCharacterOffsets(t *testing.T) {
	r := rule(t, rules.IfIDTruthiness)
	matches, _ := Scan("// é\nif (userId) {}", r)
	if len(matches) != 1 || matches[0].Span.Start != 5 || matches[0].Span.End != 16 {
		t.Fatalf("offsets should count characters, got %v", matches)
	}
}

const mixedSample = `// TODO wire the cache
function load(userId, orderId) {
  if (userId) { console.log(userId); }
  if (x = 5) { }
  if (orderId && isReady) { console.debug("x"); }
  $.get('/orders/' + parseInt(orderId, 10));
  axios.get(url);
}
-- TODO drop this table
CREATE PROCEDURE dbo.SaveUser @Id INT AS BEGIN
  INSERT INTO Users DEFAULT VALUES;
  SELECT SCOPE_IDENTITY(), @@IDENTITY;
  IF @@ROWCOUNT = 0 RETURN;
END
`
