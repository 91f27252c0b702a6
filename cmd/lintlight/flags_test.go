package main

import (
	"io"
	"strings"
	"testing"
)

func TestParseArgsは明示したフラグだけを層に入れる(t *testing.T) {
	c, err := parseArgs("scan", []string{"-o", "csv", "--disable", "a,b", "--disable", "c", "-j", "3", "dir1", "dir2"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	l := c.layer
	if l.UI.Output == nil || *l.UI.Output != "csv" {
		t.Fatalf("Output mismatch: %v", l.UI.Output)
	}
	if l.Rules.Disable == nil || strings.Join(*l.Rules.Disable, ",") != "a,b,c" {
		t.Fatalf("Disable mismatch: %v", l.Rules.Disable)
	}
	if l.Engine.Jobs == nil || *l.Engine.Jobs != 3 {
		t.Fatalf("Jobs mismatch: %v", l.Engine.Jobs)
	}
	if l.Engine.Paths == nil || strings.Join(*l.Engine.Paths, ",") != "dir1,dir2" {
		t.Fatalf("Paths mismatch: %v", l.Engine.Paths)
	}
	if l.UI.Color != nil || l.Engine.ExcludeTypical != nil || l.Log.Level != nil {
		t.Fatal("指定していないフラグが層に入っています")
	}
}

func TestParseArgsは偽の真偽値フラグも保持する(t *testing.T) {
	c, err := parseArgs("scan", []string{"--exclude-typical=false", "--with-text"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if c.layer.Engine.ExcludeTypical == nil || *c.layer.Engine.ExcludeTypical {
		t.Fatalf("ExcludeTypical mismatch: %v", c.layer.Engine.ExcludeTypical)
	}
	if c.layer.UI.WithText == nil || !*c.layer.UI.WithText {
		t.Fatalf("WithText mismatch: %v", c.layer.UI.WithText)
	}
}

func TestParseArgsHelp(t *testing.T) {
	c, err := parseArgs("scan", []string{"-h"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if !c.showHelp {
		t.Fatal("showHelp should be true")
	}
}

func TestParseArgsはコマンドごとにフラグを分ける(t *testing.T) {
	if _, err := parseArgs("scan", []string{"--debounce-ms", "50"}, io.Discard); err != errUsage {
		t.Fatalf("scan は --debounce-ms を受け付けないはずです: %v", err)
	}
	c, err := parseArgs("watch", []string{"--debounce-ms", "50", "--poll-ms=20", "a.sql"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if *c.layer.Engine.DebounceMS != 50 || *c.layer.Engine.PollMS != 20 {
		t.Fatalf("watch layer mismatch: %+v", c.layer.Engine)
	}
	if c.layer.Engine.Paths != nil || len(c.paths) != 1 || c.paths[0] != "a.sql" {
		t.Fatalf("watch の位置引数は走査パスにしないはずです: %+v %v", c.layer.Engine.Paths, c.paths)
	}
	if _, err := parseArgs("rules", []string{"--color", "never"}, io.Discard); err != errUsage {
		t.Fatalf("rules は --color を受け付けないはずです: %v", err)
	}
}

func TestParseArgsServeDefaults(t *testing.T) {
	c, err := parseArgs("serve", nil, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if c.host != "127.0.0.1" || c.port != 8080 || c.open {
		t.Fatalf("serve defaults mismatch: host=%q port=%d open=%v", c.host, c.port, c.open)
	}
	c, err = parseArgs("serve", []string{"-p", "9000", "--open", "--host", "0.0.0.0"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs failed: %v", err)
	}
	if c.host != "0.0.0.0" || c.port != 9000 || !c.open {
		t.Fatalf("serve flags mismatch: host=%q port=%d open=%v", c.host, c.port, c.open)
	}
}
