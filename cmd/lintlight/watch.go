package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phyten/lintlight/internal/detect"
	"github.com/phyten/lintlight/internal/document"
	"github.com/phyten/lintlight/internal/present"
	"github.com/phyten/lintlight/internal/session"
)

// editor is the part of a session the file poller drives.
type editor interface {
	Edit(doc session.Document)
}

func (a *app) watchCmd(ctx context.Context, args []string) error {
	c, err := parseArgs("watch", args, a.stderr)
	if err != nil {
		return err
	}
	if c.showHelp {
		return nil
	}
	if len(c.paths) != 1 {
		fmt.Fprintln(a.stderr, "usage: lintlight watch [flags] FILE")
		return errUsage
	}
	s, logger, table, err := a.setup(c)
	if err != nil {
		return err
	}
	painter, err := a.painter(s.UI)
	if err != nil {
		return err
	}

	path := c.paths[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	buf := document.NewBuffer(path, detect.FromPathAndContent(path, data).Name, string(data))
	term := &present.Terminal{
		Out:     a.stdout,
		Painter: painter,
		Clear:   true,
		Source: func(uri string) (string, bool) {
			if uri != buf.URI() {
				return "", false
			}
			return buf.Text(), true
		},
	}
	sess := session.New(table, term,
		session.WithDelay(time.Duration(s.Engine.DebounceMS)*time.Millisecond),
		session.WithLogger(logger.With("component", "session")))
	defer sess.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching", "file", path, "language", buf.Language(), "rules", table.Len(), "debounce", sess.Delay())
	sess.Open(buf)
	return pollFile(ctx, path, buf, sess, time.Duration(s.Engine.PollMS)*time.Millisecond, logger)
}

// pollFile reloads path into buf when its size or mtime moves and the
// contents differ from buf, then reports the edit. It returns when ctx is done.
func pollFile(ctx context.Context, path string, buf *document.Buffer, ed editor, interval time.Duration, logger *slog.Logger) error {
	var (
		lastMod  time.Time
		lastSize int64 = -1
	)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		fi, err := os.Stat(path)
		if err != nil {
			logger.Warn("stat failed", "file", path, "err", err)
			continue
		}
		if fi.ModTime().Equal(lastMod) && fi.Size() == lastSize {
			continue
		}
		lastMod, lastSize = fi.ModTime(), fi.Size()
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("read failed", "file", path, "err", err)
			continue
		}
		text := string(data)
		if text == buf.Text() {
			continue
		}
		version := buf.Replace(text)
		logger.Debug("file changed", "file", path, "version", version)
		ed.Edit(buf)
	}
}
