package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/wbunit/web/internal/config"
	"github.com/wbunit/web/internal/httpserver"
)

type serverSettings struct {
	env  map[string]string
	deps httpserver.Dependencies
}

// ServerOption customises the server configuration for tests.
type ServerOption func(*serverSettings)

// WithEnv sets configuration values using environment-style keys.
func WithEnv(values map[string]string) ServerOption {
	return func(s *serverSettings) {
		for k, v := range values {
			s.env[k] = v
		}
	}
}

// WithLogger routes server logs to logger.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *serverSettings) {
		s.deps.Logger = logger
	}
}

// WithClock pins the time reported by the health endpoint.
func WithClock(now func() time.Time) ServerOption {
	return func(s *serverSettings) {
		s.deps.Now = now
	}
}

// WithContent replaces the embedded landing copy.
func WithContent(source httpserver.ContentSource) ServerOption {
	return func(s *serverSettings) {
		s.deps.Content = source
	}
}

// NewServer constructs an httptest server running the full HTTP stack. The
// process environment is ignored so tests see defaults unless overridden.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()

	settings := serverSettings{env: map[string]string{}}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := config.Load(config.WithEnvMap(settings.env))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	srv, err := httpserver.New(cfg, settings.deps)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
