// Package server serves rendered charts and dashboards over HTTP.
//
// With watch enabled the document is reloaded into a fresh catalog whenever
// it changes on disk, and open pages are told to refresh.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/firefly/internal/project"
)

// reloadDebounce delays a reload until the document stops changing.
const reloadDebounce = 100 * time.Millisecond

// Config holds configuration for the server.
type Config struct {
	Document string
	Port     int
	Watch    bool
	Logger   *slog.Logger
}

// Server serves one loaded document.
type Server struct {
	document string
	port     int
	watch    bool
	logger   *slog.Logger
	notifier *notifier

	mu      sync.RWMutex
	project *project.Project
	closed  bool
}

// New creates a server for an already loaded project. The server owns the
// project from then on and closes it on shutdown or reload.
func New(cfg Config, p *project.Project) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		document: cfg.Document,
		port:     cfg.Port,
		watch:    cfg.Watch,
		logger:   logger,
		notifier: newNotifier(),
		project:  p,
	}
}

// Serve starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchDocument(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	err := eg.Wait()
	if cerr := s.Close(); cerr != nil {
		s.logger.Warn("failed to close connections", "error", cerr)
	}
	return err
}

// Close releases the current project's connections. Later reloads fail
// with ErrClosed.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.project == nil {
		return nil
	}
	err := s.project.Close()
	s.project = nil
	return err
}

// withProject runs fn with the current project. A reload waits for fn to return.
func (s *Server) withProject(fn func(*project.Project) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project == nil {
		return errNoProject
	}
	return fn(s.project)
}

var errNoProject = errors.New("no document loaded")

// ErrClosed is returned by Reload once the server has been closed.
var ErrClosed = errors.New("server closed")

// Reload loads the document into a fresh catalog and swaps it in. On failure
// the current project keeps serving.
func (s *Server) Reload(ctx context.Context) error {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}

	p, err := project.Load(ctx, s.document, project.WithLogger(s.logger))
	if err != nil {
		s.logger.Error("reload failed", "document", s.document, "error", err)
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if err := p.Close(); err != nil {
			s.logger.Warn("failed to close connections", "error", err)
		}
		return ErrClosed
	}
	old := s.project
	s.project = p
	if old != nil {
		if err := old.Close(); err != nil {
			s.logger.Warn("failed to close previous connections", "error", err)
		}
	}
	s.mu.Unlock()

	s.logger.Info("document reloaded", "document", s.document)
	s.notifier.broadcast()
	return nil
}

// watchDocument reloads the document whenever it changes.
// The parent directory is watched since editors often replace files on save.
func (s *Server) watchDocument(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(s.document)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch document directory", "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				if ctx.Err() != nil {
					return
				}
				s.logger.Debug("document changed, reloading", "file", event.Name)
				_ = s.Reload(ctx)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
