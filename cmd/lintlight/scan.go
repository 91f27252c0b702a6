package main

import (
	"context"
	"io"
	"os"

	"github.com/phyten/lintlight/internal/config"
	"github.com/phyten/lintlight/internal/engine"
	engineopts "github.com/phyten/lintlight/internal/engine/opts"
	"github.com/phyten/lintlight/internal/output"
	"github.com/phyten/lintlight/internal/present"
	"github.com/phyten/lintlight/internal/progress"
	"github.com/phyten/lintlight/internal/termcolor"
)

const stdinName = "-"

func (a *app) scanCmd(ctx context.Context, args []string) error {
	c, err := parseArgs("scan", args, a.stderr)
	if err != nil {
		return err
	}
	if c.showHelp {
		return nil
	}
	s, logger, table, err := a.setup(c)
	if err != nil {
		return err
	}
	painter, err := a.painter(s.UI)
	if err != nil {
		return err
	}
	sel, err := output.ResolveFields(s.UI.Fields, s.UI.WithText)
	if err != nil {
		return err
	}
	spec, err := ParseSortSpec(s.UI.Sort)
	if err != nil {
		return err
	}

	var (
		res   *engine.BatchResult
		stdin string
	)
	if len(s.Engine.Paths) == 1 && s.Engine.Paths[0] == stdinName {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return err
		}
		stdin = string(data)
		fr, err := engine.ScanText(ctx, table, stdinName, "", stdin)
		if err != nil {
			return err
		}
		res = &engine.BatchResult{Scanned: 1, Total: len(fr.Findings)}
		if len(fr.Findings) > 0 {
			res.Files = append(res.Files, *fr)
		}
	} else {
		opts := engineopts.Defaults()
		s.Engine.ApplyToOptions(&opts)
		if progress.ShouldShowProgress(c.progress, c.noProgress, a.stdout, a.stderr) {
			opts.Observer = progress.NewAutoObserver(a.stderr, logger.With("component", "progress"))
		}
		if err := engineopts.Normalize(&opts); err != nil {
			return err
		}
		if res, err = engine.RunFiles(ctx, table, opts); err != nil {
			return err
		}
	}
	logger.Info("scan finished", "files", len(res.Files), "findings", res.Total, "errors", res.ErrorCount, "elapsed_ms", res.ElapsedMS)

	source := func(uri string) (string, bool) {
		if uri == stdinName {
			return stdin, true
		}
		data, err := os.ReadFile(uri)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
	if err := a.writeReport(s.UI, res, sel, spec, painter, source); err != nil {
		return err
	}
	return output.WriteErrors(a.stderr, res)
}

func (a *app) writeReport(ui config.UISettings, res *engine.BatchResult, sel output.FieldSelection, spec SortSpec, painter termcolor.Painter, source present.TextSource) error {
	rows := output.Rows(res)
	ApplySort(rows, spec)
	if write, ok := output.RowWriterFor(ui.Output); ok {
		return write(a.stdout, rows, sel)
	}
	switch ui.Output {
	case "json":
		return output.WriteJSON(a.stdout, res)
	case "show":
		term := &present.Terminal{Out: a.stdout, Notices: a.stderr, Painter: painter, Source: source}
		for _, fr := range res.Files {
			scan := &engine.Result{URI: fr.File, Findings: fr.Findings, Summaries: fr.Summaries}
			term.SetHighlights(fr.File, engine.Highlights(scan))
			for _, n := range scan.Notifications() {
				term.Notify(fr.File + ": " + n)
			}
		}
		return output.WriteStats(a.stdout, res)
	default:
		if err := output.WriteTable(a.stdout, rows, sel, output.TableOptions{Painter: painter}); err != nil {
			return err
		}
		return output.WriteNotifications(a.stderr, res.Files, painter)
	}
}
