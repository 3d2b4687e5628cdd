// Package ui provides the web host for the timeline widget: a server-rendered
// timeline with the control panel from the original demo, session-persisted
// panel choices and live re-render on configuration file changes.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/tltv/timeline-flow/internal/cli/config"
	"github.com/tltv/timeline-flow/internal/ui/notifier"
)

// Config holds configuration for the UI server.
type Config struct {
	Base          *config.Config
	ConfigFile    string // watched for live re-render, empty disables
	Port          int
	Watch         bool
	SessionSecret string
	Logger        *slog.Logger
}

// Server is the web host.
type Server struct {
	mu           sync.RWMutex
	base         config.Config
	configFile   string
	port         int
	watch        bool
	sessionStore *sessions.CookieStore
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Server{
		base:         *cfg.Base,
		configFile:   cfg.ConfigFile,
		port:         cfg.Port,
		watch:        cfg.Watch,
		sessionStore: sessionStore,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// baseConfig returns a copy of the currently loaded configuration.
func (s *Server) baseConfig() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Handler builds the route tree. Exposed for httptest use.
func (s *Server) Handler() http.Handler {
	h := &handlers{server: s, logger: s.logger}

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	r.Get("/", h.page)
	r.Post("/panel", h.updatePanel)
	r.Get("/events", h.events)
	return r
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start config watcher if enabled
	if s.watch && s.configFile != "" {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watchConfig watches the configuration file and re-renders all connected
// pages when it changes. Editors replace files rather than writing in place,
// so the parent directory is watched and events are filtered by name.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(s.configFile)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		s.logger.Error("failed to watch config directory", "error", err)
		return nil
	}

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.reloadConfig()
			})

		case err := <-watcher.Errors:
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// reloadConfig re-reads the configuration file and broadcasts to SSE clients.
// A file that fails to load keeps the previous configuration.
func (s *Server) reloadConfig() {
	cfg, err := config.LoadConfig(s.configFile, nil)
	if err != nil {
		s.logger.Error("config reload failed", "file", s.configFile, "error", err)
		return
	}
	s.mu.Lock()
	s.base = *cfg
	s.mu.Unlock()

	s.logger.Info("config reloaded", "file", s.configFile)
	s.notifier.Broadcast()
}
