package detect

import "testing"

func TestNormalizeLangNameAliases(t *testing.T) {
	cases := map[string]string{
		"JS":    "javascript",
		"Ts":    "typescript",
		"tsql":  "sql",
		"MSSQL": "sql",
		"Py":    "python",
		"bash":  "shell",
		" go ":  "go",
		"cobol": "cobol",
	}
	for input, want := range cases {
		if got := NormalizeLangName(input); got != want {
			t.Fatalf("NormalizeLangName(%q)=%q want %q", input, got, want)
		}
	}
}

func TestCanonicalLangsDedupes(t *testing.T) {
	in := []string{" js ", "TS", "js", "", "tsql", "sql"}
	got := CanonicalLangs(in)
	want := []string{"javascript", "typescript", "sql"}
	if len(got) != len(want) {
		t.Fatalf("unexpected length: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("value mismatch at %d: got=%q want=%q", i, got[i], want[i])
		}
	}
	if CanonicalLangs(nil) != nil {
		t.Fatal("expected nil for empty filter")
	}
}

func TestKnown(t *testing.T) {
	if !Known("tsql") || !Known("JavaScript") {
		t.Fatal("expected aliases of known languages to be known")
	}
	if Known("") || Known("cobol") {
		t.Fatal("expected unknown languages to report false")
	}
}

func TestFromPathAndContent(t *testing.T) {
	cases := []struct {
		path string
		data string
		want string
	}{
		{"src/app.js", "", "javascript"},
		{"src/App.TSX", "", "typescriptreact"},
		{"db/procs/usp_save.sql", "", "sql"},
		{"db/procs/usp_save.prc", "", "sql"},
		{"views/page.js.erb", "", "javascript"},
		{"bin/tool", "#!/usr/bin/env node\nconsole.log(1)\n", "javascript"},
		{"bin/run", "#!/bin/sh\necho hi\n", "shell"},
		{"README", "no shebang here", ""},
		{"data.bin", "", ""},
	}
	for _, tc := range cases {
		if got := FromPathAndContent(tc.path, []byte(tc.data)).Name; got != tc.want {
			t.Fatalf("FromPathAndContent(%q)=%q want %q", tc.path, got, tc.want)
		}
	}
}
