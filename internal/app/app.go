// Package app assembles the server from configuration: it opens the
// configured stores, builds the services and wires the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formify/internal/config"
	"github.com/goliatone/go-formify/internal/httpapi"
	"github.com/goliatone/go-formify/internal/metrics"
	"github.com/goliatone/go-formify/internal/service"
	"github.com/goliatone/go-formify/internal/storage"
	"github.com/goliatone/go-formify/internal/storage/jsonfile"
	"github.com/goliatone/go-formify/internal/storage/memory"
	"github.com/goliatone/go-formify/internal/storage/mongostore"
	"github.com/goliatone/go-formify/internal/storage/postgres"
	"github.com/goliatone/go-formify/internal/storage/redisdraft"
)

// Application ties the services and the HTTP server together.
type Application struct {
	Forms   *service.Forms
	Drafts  *service.Drafts
	Metrics *metrics.Metrics
	Server  *httpapi.Server

	cfg     config.Config
	logger  *zap.Logger
	closers []func() error
}

// New opens the stores named by cfg and builds the application. Close
// releases them.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Application, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Application{cfg: cfg, logger: logger, Metrics: metrics.New()}

	store, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)

	drafts, closeDrafts, err := OpenDrafts(ctx, cfg.Drafts)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	if closeDrafts != nil {
		a.closers = append(a.closers, closeDrafts)
	}

	a.Forms = service.NewForms(store,
		service.WithLogger(logger.Named("forms")),
		service.WithFrontendURL(cfg.HTTP.FrontendURL),
		service.WithRecorder(a.Metrics),
	)
	a.Drafts = service.NewDrafts(drafts, service.WithLogger(logger.Named("drafts")))

	a.Server, err = httpapi.New(a.Forms, a.Drafts,
		httpapi.WithLogger(logger.Named("http")),
		httpapi.WithMetrics(a.Metrics),
		httpapi.WithDevelopment(cfg.Development()),
		httpapi.WithRateLimit(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst),
		httpapi.WithCORSOrigin(cfg.HTTP.CORSOrigin),
	)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	logger.Info("application ready",
		zap.String("store", cfg.Store.Driver),
		zap.Bool("redis_drafts", cfg.Drafts.RedisAddr != ""),
		zap.String("env", cfg.Env),
	)
	return a, nil
}

// Run serves the API until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	return a.Server.ListenAndServe(ctx, a.cfg.HTTP.Addr)
}

// Close releases stores in reverse order of opening.
func (a *Application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// OpenStore connects the form store selected by cfg.Driver. Database
// backends have their schema or indexes created on open.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return memory.New(), nil
	case config.DriverJSON:
		return jsonfile.New(cfg.Path), nil
	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("app: open store: %w", err)
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("app: open store: %w", err)
		}
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("app: open store: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("app: open store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("app: unknown store driver %q", cfg.Driver)
	}
}

// OpenDrafts returns the redis draft store when an address is configured and
// an in-memory one otherwise. The returned close func may be nil.
func OpenDrafts(ctx context.Context, cfg config.DraftsConfig) (storage.DraftStore, func() error, error) {
	if cfg.RedisAddr == "" {
		return memory.NewDraftStore(cfg.TTL, nil), nil, nil
	}
	store, err := redisdraft.Dial(ctx, cfg.RedisAddr, cfg.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("app: open drafts: %w", err)
	}
	return store, store.Close, nil
}
