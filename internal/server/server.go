// Package server serves interactive pill-tree diagrams over HTTP.
//
// Every browser view gets its own diagram, built from the one tree document
// loaded at startup, and addressed by a random UUID. A view's operations
// are serialized by its mutex, so each tree still sees a single logical
// thread; different views proceed in parallel.
//
// Routes:
//
//	GET    /                                       page with a fresh view
//	POST   /api/views                              create a view (JSON)
//	GET    /api/views/{id}                         current frame as SVG, or JSON with ?format=json
//	DELETE /api/views/{id}                         drop a view
//	POST   /api/views/{id}/nodes/{node}/toggle     toggle a node, returns the next frame as SVG
//	GET    /healthz                                liveness
//	GET    /metrics                                Prometheus metrics
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kintree/pkg/config"
	"github.com/matzehuels/kintree/pkg/diagram"
	"github.com/matzehuels/kintree/pkg/scene"
	"github.com/matzehuels/kintree/pkg/tree"
)

// SweepInterval is how often idle views are expired.
const SweepInterval = time.Minute

// Server owns the loaded tree document and the live views.
type Server struct {
	record      *tree.Record
	title       string
	cfg         *config.Config
	diagramOpts []diagram.Option
	logger      *log.Logger
	views       *Store
	metrics     *Metrics
	router      chi.Router
}

// Options configures a Server.
type Options struct {
	Config  *config.Config
	Logger  *log.Logger
	Metrics *Metrics
	// Title is shown in the page header; defaults to the root's name.
	Title string
	// Diagram options applied after those derived from Config.
	Diagram []diagram.Option
}

// New creates a server for rec.
func New(rec *tree.Record, opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.Title == "" {
		opts.Title = tree.FullName(rec.FirstName, rec.LastName)
	}

	s := &Server{
		record:      rec,
		title:       opts.Title,
		cfg:         opts.Config,
		diagramOpts: opts.Diagram,
		logger:      opts.Logger,
		views:       NewStore(opts.Config.Server.ViewTTL.Duration, opts.Config.Server.MaxViews),
		metrics:     opts.Metrics,
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
	r.Use(s.metrics.Middleware)

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/views", func(r chi.Router) {
		r.Post("/", s.handleCreateView)
		r.Route("/{view}", func(r chi.Router) {
			r.Get("/", s.handleGetView)
			r.Delete("/", s.handleDeleteView)
			r.Post("/nodes/{node}/toggle", s.handleToggle)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Views returns the view store.
func (s *Server) Views() *Store { return s.views }

// newView builds a fresh diagram and commits its initial frame.
func (s *Server) newView(ctx context.Context) (*View, error) {
	root, err := tree.Build(s.record)
	if err != nil {
		return nil, err
	}
	sc := scene.New()
	d, err := diagram.New(root, sc, append(diagram.FromConfig(s.cfg, s.logger), s.diagramOpts...)...)
	if err != nil {
		return nil, err
	}
	if _, err := d.Start(ctx); err != nil {
		return nil, err
	}

	v := newView(d, sc, sc.Commit(), time.Now())
	if evicted := s.views.Add(v); evicted != "" {
		s.metrics.viewsClosed.WithLabelValues("evicted").Inc()
		s.logger.Debug("evicted view", "view", evicted)
	}
	s.metrics.views.Set(float64(s.views.Len()))
	s.logger.Info("created view", "view", v.ID, "nodes", d.Stats().Nodes)
	return v, nil
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.views.Sweep(); n > 0 {
				s.metrics.viewsClosed.WithLabelValues("expired").Add(float64(n))
				s.metrics.views.Set(float64(s.views.Len()))
				s.logger.Debug("expired views", "count", n)
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
