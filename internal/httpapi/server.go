// Package httpapi serves the form backend over HTTP: form creation and
// retrieval, submissions, dashboard stats, editor drafts and HTML previews.
// Every JSON response uses the schema.Envelope shape.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	formify "github.com/goliatone/go-formify"
	"github.com/goliatone/go-formify/internal/metrics"
	"github.com/goliatone/go-formify/internal/service"
	"github.com/goliatone/go-formify/pkg/render"
	"github.com/goliatone/go-formify/pkg/renderers/vanilla"
)

type config struct {
	logger      *zap.Logger
	metrics     *metrics.Metrics
	identity    Identity
	renderer    render.Renderer
	development bool
	rateLimit   float64
	rateBurst   int
	corsOrigin  string
}

// Option configures the server.
type Option func(*config)

func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics instruments every route and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

func WithIdentity(identity Identity) Option {
	return func(c *config) {
		if identity != nil {
			c.identity = identity
		}
	}
}

// WithRenderer replaces the HTML preview renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(c *config) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// WithDevelopment exposes the detail of unexpected errors to clients.
func WithDevelopment(enabled bool) Option {
	return func(c *config) { c.development = enabled }
}

// WithRateLimit allows rps requests per second per caller with the given
// burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *config) {
		c.rateLimit = rps
		c.rateBurst = burst
	}
}

// WithCORSOrigin sets Access-Control-Allow-Origin. Empty disables CORS.
func WithCORSOrigin(origin string) Option {
	return func(c *config) { c.corsOrigin = origin }
}

// Server owns the routes and middleware of the API.
type Server struct {
	forms   *service.Forms
	drafts  *service.Drafts
	apiDoc  *APIDoc
	cfg     config
	handler http.Handler
}

// New builds the server. The embedded API description is validated here so a
// broken document fails at startup.
func New(forms *service.Forms, drafts *service.Drafts, opts ...Option) (*Server, error) {
	if forms == nil || drafts == nil {
		return nil, errors.New("httpapi: forms and drafts services are required")
	}
	cfg := config{
		logger:     zap.NewNop(),
		identity:   HeaderIdentity{},
		corsOrigin: "*",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.renderer == nil {
		renderer, err := vanilla.New(
			vanilla.WithPage(),
			vanilla.WithDefaultStyles(),
			vanilla.WithThemeSelector(vanilla.NewManifestSelector(vanilla.DefaultThemeName)),
		)
		if err != nil {
			return nil, fmt.Errorf("httpapi: preview renderer: %w", err)
		}
		cfg.renderer = renderer
	}

	doc, err := LoadAPIDoc(context.Background())
	if err != nil {
		return nil, err
	}

	s := &Server{forms: forms, drafts: drafts, apiDoc: doc, cfg: cfg}
	s.handler = s.buildHandler()
	cfg.logger.Debug("api ready",
		zap.String("renderer", cfg.renderer.Name()),
		zap.Strings("operations", doc.Operations()),
	)
	return s, nil
}

// Handler returns the root handler with every middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) buildHandler() http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(s.notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)
	if s.cfg.metrics != nil {
		router.Use(s.cfg.metrics.Middleware)
		router.Handle("/metrics", s.cfg.metrics.Handler()).Methods(http.MethodGet)
	}
	s.routes(router.PathPrefix("/api").Subrouter())
	router.PathPrefix("/assets/").Handler(
		http.StripPrefix("/assets/", http.FileServerFS(formify.StaticAssets())),
	).Methods(http.MethodGet, http.MethodHead)

	var handler http.Handler = router
	if s.cfg.rateLimit > 0 {
		handler = newRateLimiter(s.cfg.rateLimit, s.cfg.rateBurst, s.cfg.identity, s.cfg.logger).middleware(handler)
	}
	handler = cors(s.cfg.corsOrigin)(handler)
	handler = recoverer(s.cfg.logger, s.cfg.development)(handler)
	handler = requestLogger(s.cfg.logger)(handler)
	return handler
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpapi: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpapi: shutdown: %w", err)
	}
	s.cfg.logger.Info("server stopped")
	return nil
}
