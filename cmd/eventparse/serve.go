package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kostroma329/Calendar-bot/extract"
	"github.com/Kostroma329/Calendar-bot/internal/httpapi"
	"github.com/Kostroma329/Calendar-bot/internal/reload"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction API over HTTP",
		Long: `Serve the extraction engine over HTTP until SIGINT or SIGTERM.

With engine.watch_lexicon set, edits to engine.lexicon_path are picked up
without a restart; a file that fails to parse leaves the old tables active.

Endpoints:
  POST /api/v1/extract   {"text": "...", "now": "RFC 3339, optional"}
  GET  /health
  GET  /metrics          Prometheus metrics

Examples:
  eventparse serve --config eventparse.yaml
  EVENTPARSE_HTTP_PORT=9000 eventparse serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

// serve runs the HTTP server until ctx is done, then shuts it down within
// the configured timeout.
func (a *app) serve(ctx context.Context) error {
	extractor, err := a.extractor(ctx)
	if err != nil {
		return err
	}
	server, err := httpapi.NewServer(extractor, a.log.Named("http"), &httpapi.Config{
		Host: a.cfg.HTTP.Host,
		Port: a.cfg.HTTP.Port,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("received shutdown signal", zap.Duration("timeout", a.cfg.HTTP.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// extractor returns a plain engine, or a reloading one when the lexicon
// file is watched. The watcher stops when ctx is done.
func (a *app) extractor(ctx context.Context) (httpapi.Extractor, error) {
	if !a.cfg.Engine.WatchLexicon {
		engine, err := a.engine()
		if err != nil {
			return nil, err
		}
		return engine, nil
	}
	build := func() (*extract.Engine, error) { return a.engine() }
	w, err := reload.New(a.cfg.Engine.LexiconPath, build, a.log.Named("reload"))
	if err != nil {
		return nil, err
	}
	go func() {
		w.Run(ctx)
		if err := w.Close(); err != nil {
			a.log.Warn("closing lexicon watcher", zap.Error(err))
		}
	}()
	return w, nil
}
