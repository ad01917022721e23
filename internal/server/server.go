// Package server exposes engines over HTTP.
//
// Each session owns one [engine.Engine] driven by a dedicated goroutine.
// Handlers never touch an engine directly: they send closures to the
// session loop and wait for them to run, so the engine keeps its
// single-goroutine contract while many requests are in flight. Document
// fetches run outside the loop, bracketed by BeginLoad and CompleteLoad, so
// a slow source never blocks ticks or events and a superseded load is
// rejected as stale.
//
// Sessions idle for longer than Options.IdleTimeout are reaped.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/netscope/pkg/engine"
	"github.com/matzehuels/netscope/pkg/source"
)

const (
	shutdownTimeout    = 30 * time.Second
	requestTimeout     = 30 * time.Second
	defaultIdleTimeout = 30 * time.Minute
	defaultMaxSessions = 256
)

// Options configures a Server.
type Options struct {
	Resolver *source.Resolver
	Engine   engine.Options
	Logger   *log.Logger

	// IdleTimeout is how long a session survives without requests.
	IdleTimeout time.Duration
	// MaxSessions bounds concurrently open sessions.
	MaxSessions int
	// AllowRefs lets clients load arbitrary source references. When false
	// only catalog names are accepted.
	AllowRefs bool
}

// Server is the session service.
type Server struct {
	opts   Options
	logger *log.Logger
	router chi.Router

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates a server. Call Close to stop its sessions.
func New(opts Options) *Server {
	if opts.Resolver == nil {
		opts.Resolver = source.NewResolver(source.ResolverOptions{})
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[string]*session),
	}
	s.router = s.routes()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.reapLoop()
	}()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/networks", s.handleNetworks)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/frame", s.handleFrame)
			r.Post("/events", s.handleEvent)
			r.Post("/tick", s.handleTick)
			r.Post("/load", s.handleLoad)
			r.Get("/svg", s.handleSVG)
			r.Delete("/", s.handleDeleteSession)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// and closes all sessions.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrs := make(chan error, 1)
	go func() {
		defer close(serverErrs)
		s.logger.Info("starting http server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrs <- err
		}
	}()

	select {
	case err := <-serverErrs:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.Close()
		if err != nil {
			_ = srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}

// Close stops every session and the reaper. It is safe to call more than
// once.
func (s *Server) Close() {
	s.cancel()
	s.mu.Lock()
	for id, sess := range s.sessions {
		delete(s.sessions, id)
		sess.stop()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func accessLog(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
