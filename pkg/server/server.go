// Package server exposes org charts over HTTP.
//
// Every chart lives in memory under a random id. Each request that changes
// a chart (toggle, layer action) mutates its view state and redirects back
// to the chart page, which is re-rendered in full:
//
//	GET    /healthz
//	GET    /metrics                      (when enabled)
//	GET    /                             redirect to the default chart, else the index
//	GET    /charts                       index of loaded charts and a load form
//	POST   /charts                       form "source"; 303 to the new chart
//	GET    /charts/{id}                  HTML page
//	GET    /charts/{id}/tree.json        current tree
//	GET    /charts/{id}/tree.svg         Graphviz rendering of the current tree
//	POST   /charts/{id}/toggle/{node}    303 back to #node-<node>
//	POST   /charts/{id}/layers           form "layer", "action"=expand|collapse
//	POST   /charts/{id}/reload           refetch the roster
//	DELETE /charts/{id}
//
// Unknown charts answer 404. A roster that cannot be fetched or parsed
// answers 502 with a "no chart rendered" page.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	Addr string

	// Defaults is the template for every chart loaded through the server:
	// columns, display policies and title. Source and Formats are ignored.
	Defaults pipeline.Options

	// Registry enables /metrics and request instrumentation when non-nil.
	Registry *prometheus.Registry

	// Watch reloads charts whose roster file changes on disk.
	Watch bool

	// ShutdownTimeout bounds graceful shutdown. Defaults to 5s.
	ShutdownTimeout time.Duration
}

// Server serves charts over HTTP.
type Server struct {
	opts    Options
	runner  *pipeline.Runner
	logger  *log.Logger
	charts  *registry
	metrics *httpMetrics
	router  chi.Router
	watcher *watcher

	mu        sync.RWMutex
	defaultID string
}

// New creates a server. The runner is shared by all requests.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{
		opts:   opts,
		runner: runner,
		logger: logger,
		charts: newRegistry(),
	}
	if opts.Registry != nil {
		s.metrics = newHTTPMetrics(opts.Registry)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.instrument)
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.handleRoot)
	r.Get("/charts", s.handleIndex)
	r.Post("/charts", s.handleCreate)
	r.Route("/charts/{id}", func(r chi.Router) {
		r.Get("/", s.handlePage)
		r.Delete("/", s.handleDelete)
		r.Get("/tree.json", s.handleJSON)
		r.Get("/tree.svg", s.handleSVG)
		r.Post("/toggle/{node}", s.handleToggle)
		r.Post("/layers", s.handleLayers)
		r.Post("/reload", s.handleReload)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Load creates a chart from source and returns its id.
func (s *Server) Load(ctx context.Context, source string) (string, error) {
	opts := s.opts.Defaults
	opts.Source = source
	opts.Logger = s.logger

	ros, err := s.runner.Load(ctx, opts)
	if err != nil {
		return "", err
	}
	c := s.runner.Build(ros, opts)
	id := s.charts.add(source, c)
	s.logger.Info("chart created", "id", id, "source", source, "employees", ros.Len())

	if s.watcher != nil {
		s.watcher.add(source)
	}
	return id, nil
}

// SetDefault makes / redirect to chart id.
func (s *Server) SetDefault(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultID = id
}

func (s *Server) defaultChart() (string, bool) {
	s.mu.RLock()
	id := s.defaultID
	s.mu.RUnlock()
	if id == "" {
		return "", false
	}
	_, ok := s.charts.get(id)
	return id, ok
}

// Run listens on opts.Addr until ctx is cancelled. The roster file watcher,
// when enabled, runs alongside the listener.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if s.opts.Watch {
		w, err := newWatcher(s.logger, s.reloadSource)
		if err != nil {
			return err
		}
		s.watcher = w
		for _, src := range s.charts.sources() {
			w.add(src)
		}
		g.Go(func() error { return w.run(ctx) })
	}

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// reloadSource refetches source and swaps the roster of every chart using it.
func (s *Server) reloadSource(ctx context.Context, source string) {
	opts := s.opts.Defaults
	opts.Source = source
	opts.Refresh = true
	opts.Logger = s.logger

	ros, err := s.runner.Load(ctx, opts)
	if err != nil {
		s.logger.Warn("reload failed, keeping previous roster", "source", source, "error", err)
		return
	}
	for _, e := range s.charts.bySource(source) {
		e.chart.Reload(ros)
		s.logger.Info("chart reloaded", "id", e.id, "employees", ros.Len())
	}
}
