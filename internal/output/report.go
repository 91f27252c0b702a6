package output

import (
	"fmt"
	"io"

	"github.com/phyten/lintlight/internal/engine"
	"github.com/phyten/lintlight/internal/termcolor"
)

// WriteNotifications prints the per-rule summaries of every file, one
// "file: Line N: message" line each.
func WriteNotifications(w io.Writer, files []engine.FileResult, p termcolor.Painter) error {
	for _, fr := range files {
		for _, s := range fr.Summaries {
			if _, err := fmt.Fprintf(w, "%s: %s %s\n", fr.File, p.Rule(s.Rule, "["+s.Rule+"]"), s.Notification()); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteErrors prints a short error report; nothing when there were none.
func WriteErrors(w io.Writer, res *engine.BatchResult) error {
	if res == nil || res.ErrorCount == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "lintlight: %d error(s) while scanning\n", res.ErrorCount); err != nil {
		return err
	}
	for _, e := range res.Errors {
		loc := e.File
		if loc == "" {
			loc = "(unknown file)"
		}
		stage := e.Stage
		if stage == "" {
			stage = "scan"
		}
		if _, err := fmt.Fprintf(w, "  %s [%s] %s\n", loc, stage, e.Message); err != nil {
			return err
		}
	}
	return nil
}

// WriteStats prints the scanned/skipped/findings line.
func WriteStats(w io.Writer, res *engine.BatchResult) error {
	if res == nil {
		return nil
	}
	_, err := fmt.Fprintf(w, "%d finding(s) in %d file(s) (%d scanned, %d skipped, %dms)\n",
		res.Total, len(res.Files), res.Scanned, res.Skipped, res.ElapsedMS)
	return err
}
