package service

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultFrontendURL prefixes sharable links when no frontend is configured.
const DefaultFrontendURL = "http://localhost:3000"

// Recorder is notified about stored forms and submissions. The metrics
// package satisfies it.
type Recorder interface {
	FormCreated()
	SubmissionRecorded(formID string)
}

type nopRecorder struct{}

func (nopRecorder) FormCreated()              {}
func (nopRecorder) SubmissionRecorded(string) {}

type config struct {
	now         func() time.Time
	logger      *zap.Logger
	frontendURL string
	recorder    Recorder
}

// Option configures the services.
type Option func(*config)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFrontendURL sets the base of sharable links.
func WithFrontendURL(url string) Option {
	return func(c *config) {
		if trimmed := strings.TrimRight(strings.TrimSpace(url), "/"); trimmed != "" {
			c.frontendURL = trimmed
		}
	}
}

// WithRecorder receives form and submission events.
func WithRecorder(recorder Recorder) Option {
	return func(c *config) {
		if recorder != nil {
			c.recorder = recorder
		}
	}
}

func newConfig(opts []Option) config {
	cfg := config{
		now:         time.Now,
		logger:      zap.NewNop(),
		frontendURL: DefaultFrontendURL,
		recorder:    nopRecorder{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
