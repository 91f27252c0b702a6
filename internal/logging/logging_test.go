package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q)=%v,%v want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("trace"); err == nil {
		t.Fatal("trace should be rejected")
	}
}

func TestNewTextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := New("text", "warn", &buf)
	lg.Info("dropped")
	lg.Warn("kept", "rule", "todo-comment")
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatalf("info should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=kept") || !strings.Contains(out, "rule=todo-comment") {
		t.Fatalf("unexpected text output: %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New("JSON", "debug", &buf).Debug("scan", "uri", "mem://a", "findings", 2)
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("json handler output not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "scan" || rec["uri"] != "mem://a" || rec["findings"] != float64(2) {
		t.Fatalf("record=%v", rec)
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"", "text", "Json"} {
		if !ValidFormat(f) {
			t.Fatalf("%q should be valid", f)
		}
	}
	if ValidFormat("logfmt") {
		t.Fatal("logfmt is not supported")
	}
}

func TestDiscard(t *testing.T) {
	lg := Discard()
	if lg.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("discard logger should not be enabled")
	}
	lg.Error("nothing happens")
}
