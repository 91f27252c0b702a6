package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/browser"

	engineopts "github.com/phyten/lintlight/internal/engine/opts"
	"github.com/phyten/lintlight/internal/web"
)

const shutdownTimeout = 5 * time.Second

func (a *app) serveCmd(ctx context.Context, args []string) error {
	c, err := parseArgs("serve", args, a.stderr)
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
	defaults := engineopts.Defaults()
	s.Engine.ApplyToOptions(&defaults)

	srv := web.NewServer(web.Options{
		Table:        table,
		Delay:        time.Duration(s.Engine.DebounceMS) * time.Millisecond,
		ScanDefaults: defaults,
		Logger:       logger,
	})
	defer srv.Close()

	ln, err := net.Listen("tcp", net.JoinHostPort(c.host, strconv.Itoa(c.port)))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// cancelling ctx also ends open event streams
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	url := "http://" + ln.Addr().String() + "/"
	logger.Info("lintlight serve listening", "url", url, "rules", table.Len(), "debounce", time.Duration(s.Engine.DebounceMS)*time.Millisecond)
	if c.open {
		if err := browser.OpenURL(url); err != nil {
			logger.Warn("could not open browser", "err", err)
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
