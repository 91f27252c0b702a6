package present

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/phyten/lintlight/internal/document"
	"github.com/phyten/lintlight/internal/engine"
	"github.com/phyten/lintlight/internal/model"
	"github.com/phyten/lintlight/internal/rules"
	"github.com/phyten/lintlight/internal/termcolor"
)

func highlightsFor(t *testing.T, uri, text string) []engine.Highlight {
	t.Helper()
	res, err := engine.Run(context.Background(), document.NewSnapshot(uri, "", 1, text), rules.Default())
	if err != nil {
		t.Fatal(err)
	}
	return engine.Highlights(res)
}

func TestRecorderKeepsLatestPerDocument(t *testing.T) {
	r := NewRecorder()
	r.SetHighlights("mem://a", []engine.Highlight{{Rule: "x"}, {Rule: "y"}})
	r.Notify("Line 1: a")
	r.SetHighlights("mem://b", []engine.Highlight{{Rule: "z"}})
	r.Notify("Line 2: b")
	r.SetHighlights("mem://a", []engine.Highlight{})
	a, ok := r.Latest("mem://a")
	if !ok || len(a.Highlights) != 0 || len(a.Notifications) != 0 || a.Updates != 2 {
		t.Fatalf("a=%+v", a)
	}
	b, _ := r.Latest("mem://b")
	if len(b.Highlights) != 1 || len(b.Notifications) != 1 || b.Notifications[0] != "Line 2: b" {
		t.Fatalf("b=%+v", b)
	}
	if got := r.Notifications(); len(got) != 2 {
		t.Fatalf("all notifications=%q", got)
	}
	all := r.All()
	if len(all) != 2 || all[0].URI != "mem://a" || all[1].URI != "mem://b" {
		t.Fatalf("all=%+v", all)
	}
	r.Forget("mem://a")
	if _, ok := r.Latest("mem://a"); ok {
		t.Fatal("forgotten document still recorded")
	}
}

func TestRecorderReturnsCopies(t *testing.T) {
	r := NewRecorder()
	hs := []engine.Highlight{{Rule: "x"}}
	r.SetHighlights("mem://a", hs)
	hs[0].Rule = "mutated"
	got, _ := r.Latest("mem://a")
	got.Highlights[0].Rule = "also mutated"
	again, _ := r.Latest("mem://a")
	if again.Highlights[0].Rule != "x" {
		t.Fatalf("recorder shares memory with callers: %+v", again)
	}
}

func TestTeeFansOut(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	p := Tee(a, nil, b)
	p.SetHighlights("mem://x", []engine.Highlight{{Rule: "r"}})
	p.Notify("n")
	for _, r := range []*Recorder{a, b} {
		s, ok := r.Latest("mem://x")
		if !ok || len(s.Highlights) != 1 || len(s.Notifications) != 1 {
			t.Fatalf("recorder=%+v", s)
		}
	}
}

func TestTerminalListing(t *testing.T) {
	text := "let a;\nif (userId) {}\n"
	var out, notes bytes.Buffer
	term := &Terminal{
		Out:     &out,
		Notices: &notes,
		Source:  func(uri string) (string, bool) { return text, uri == "mem://a.js" },
	}
	term.SetHighlights("mem://a.js", highlightsFor(t, "mem://a.js", text))
	want := "" +
		"mem://a.js: 1 finding(s)\n" +
		"2 | if (userId) {}\n" +
		"  | ^^^^^^^^^^^\n" +
		"  2:1     if-id-truthiness An ID of 0 would evaluate to false. Consider: userId != null\n"
	if out.String() != want {
		t.Fatalf("listing:\n%q\nwant:\n%q", out.String(), want)
	}
	term.Notify("Line 2: hello")
	if notes.String() != "notice: Line 2: hello\n" {
		t.Fatalf("notice=%q", notes.String())
	}
}

func TestTerminalMultilineAndTabs(t *testing.T) {
	text := "x\n\tCREATE PROCEDURE p\n  @a INT\nAS BEGIN\nEND"
	var out bytes.Buffer
	term := &Terminal{Out: &out, Source: func(string) (string, bool) { return text, true }}
	term.SetHighlights("mem://p.sql", highlightsFor(t, "mem://p.sql", text))
	got := out.String()
	for _, want := range []string{
		"2 |     CREATE PROCEDURE p\n  |     ^^^^^^^^^^^^^^^^^^\n",
		"3 |   @a INT\n  | ^^^^^^^^\n",
		"4 | AS BEGIN\n  | ^^^^^^^^\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "5 |") || strings.Contains(got, "1 |") {
		t.Fatalf("unrelated lines printed:\n%s", got)
	}
}

func TestTerminalClearsAndColours(t *testing.T) {
	var out bytes.Buffer
	term := &Terminal{
		Out:     &out,
		Painter: termcolor.Painter{Enabled: true, Scheme: termcolor.SchemeLight, Profile: termcolor.ProfileBasic8},
		Clear:   true,
	}
	term.SetHighlights("mem://a", []engine.Highlight{})
	if !strings.HasPrefix(out.String(), "\x1b[H\x1b[2J") || !strings.Contains(out.String(), "no findings") {
		t.Fatalf("out=%q", out.String())
	}
	out.Reset()
	h := engine.Highlight{Rule: "r", Hover: "hover", Span: model.Span{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 2}}
	term.SetHighlights("mem://a", []engine.Highlight{h})
	// darkblue on a light scheme is basic blue, underlined
	if !strings.Contains(out.String(), "\x1b[4;34m1:1    \x1b[0m") {
		t.Fatalf("out=%q", out.String())
	}
}
