package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/phyten/lintlight/internal/config"
)

// app carries the process environment so commands can be driven from tests.
type app struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	getenv  func(string) string
	environ []string
}

func main() {
	log.SetFlags(0)
	a := &app{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		getenv:  os.Getenv,
		environ: os.Environ(),
	}
	if err := a.run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatalf("lintlight: %v", err)
	}
}

var errUsage = errors.New("usage")

func (a *app) run(ctx context.Context, args []string) error {
	cmd := "scan"
	if len(args) > 0 {
		switch args[0] {
		case "scan", "watch", "serve", "rules":
			cmd, args = args[0], args[1:]
		case "help", "-h", "--help":
			a.usage()
			return nil
		}
	}
	switch cmd {
	case "watch":
		return a.watchCmd(ctx, args)
	case "serve":
		return a.serveCmd(ctx, args)
	case "rules":
		return a.rulesCmd(args)
	default:
		return a.scanCmd(ctx, args)
	}
}

func (a *app) usage() {
	fmt.Fprint(a.stdout, `lintlight highlights risky patterns in source text.

Usage:
  lintlight [scan] [flags] PATH...   scan files or directories ("-" reads stdin)
  lintlight watch [flags] FILE       re-scan FILE whenever it changes
  lintlight serve [flags]            run the editor bridge and viewer
  lintlight rules [flags]            list the active rules

Run "lintlight <command> -h" for the flags of a command.

Configuration is read from .lintlight.{yaml,yml,toml,json} (working directory
upwards), $XDG_CONFIG_HOME/lintlight/config.* or the home directory; the
LINTLIGHT_CONFIG environment variable or --config picks a file explicitly.
Environment variables override the file, flags override both:
`)
	for _, key := range config.EnvKeys() {
		fmt.Fprintf(a.stdout, "  %s\n", key)
	}
}
