// Package reload keeps an extraction engine in step with its lexicon file.
package reload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Kostroma329/Calendar-bot/extract"
)

// ErrWatcherFailed reports that the filesystem watcher could not start.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

var reloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "eventparse",
	Subsystem: "lexicon",
	Name:      "reloads_total",
	Help:      "Lexicon reload attempts, by result.",
}, []string{"result"})

func init() {
	prometheus.MustRegister(reloadsTotal)
}

// Builder constructs a fresh engine, typically re-reading the lexicon.
type Builder func() (*extract.Engine, error)

// Engine serves extraction from the most recently built engine and
// rebuilds it whenever the watched file changes. A failed rebuild keeps
// the previous engine.
type Engine struct {
	path    string
	build   Builder
	watcher *fsnotify.Watcher
	current atomic.Pointer[extract.Engine]
	log     *zap.Logger
}

// New builds the initial engine and starts watching the directory holding
// path, so that editors which save by renaming over the file are seen.
func New(path string, build Builder, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	initial, err := build()
	if err != nil {
		return nil, fmt.Errorf("reload: initial build: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("reload: %w: %v", ErrWatcherFailed, err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("reload: watching %s: %w", path, err)
	}

	e := &Engine{
		path:    filepath.Clean(path),
		build:   build,
		watcher: watcher,
		log:     log,
	}
	e.current.Store(initial)
	return e, nil
}

// Run processes change events until ctx is done or Close is called.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != e.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				e.Reload()
			}
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			e.log.Warn("lexicon watcher error", zap.Error(err))
		}
	}
}

// Reload rebuilds the engine now and reports whether the new one was
// installed.
func (e *Engine) Reload() bool {
	start := time.Now()
	next, err := e.build()
	if err != nil {
		reloadsTotal.WithLabelValues("failure").Inc()
		e.log.Warn("lexicon reload failed, keeping previous tables",
			zap.String("path", e.path),
			zap.Error(err),
		)
		return false
	}
	e.current.Store(next)
	reloadsTotal.WithLabelValues("success").Inc()
	e.log.Info("lexicon reloaded",
		zap.String("path", e.path),
		zap.Duration("duration", time.Since(start)),
	)
	return true
}

// Current returns the engine in use.
func (e *Engine) Current() *extract.Engine {
	return e.current.Load()
}

// Extract delegates to the current engine.
func (e *Engine) Extract(text string) extract.Result {
	return e.current.Load().Extract(text)
}

// ExtractAt delegates to the current engine.
func (e *Engine) ExtractAt(text string, ref time.Time) extract.Result {
	return e.current.Load().ExtractAt(text, ref)
}

// Close stops the watcher.
func (e *Engine) Close() error {
	return e.watcher.Close()
}
