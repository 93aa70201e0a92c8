package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultPort = "8080"

// Config captures the runtime configuration of the landing site.
type Config struct {
	Server  ServerConfig
	Site    SiteConfig
	Logging LoggingConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	// Address wins over Port when both are set.
	Address        string        `env:"WEB_HTTP_ADDR"`
	Port           string        `env:"PORT" envDefault:"8080"`
	ReadTimeout    time.Duration `env:"WEB_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout   time.Duration `env:"WEB_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout    time.Duration `env:"WEB_IDLE_TIMEOUT" envDefault:"60s"`
	HandlerTimeout time.Duration `env:"WEB_HANDLER_TIMEOUT" envDefault:"30s"`
	EnableH2C      bool          `env:"WEB_ENABLE_H2C"`
}

// SiteConfig controls what the landing site renders and where it links.
type SiteConfig struct {
	Environment        string        `env:"WEB_ENV" envDefault:"local"`
	BaseURL            string        `env:"WEB_BASE_URL"`
	DefaultLocale      string        `env:"WEB_DEFAULT_LOCALE" envDefault:"ru"`
	CalculatorUpstream string        `env:"WEB_CALCULATOR_UPSTREAM"`
	HTMXScriptURL      string        `env:"WEB_HTMX_SCRIPT_URL" envDefault:"https://unpkg.com/htmx.org@2.0.3"`
	ContentCacheTTL    time.Duration `env:"WEB_CONTENT_CACHE_TTL" envDefault:"5m"`
	TraceProjectID     string        `env:"WEB_TRACE_PROJECT_ID"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// ValidationError is returned when configuration fields are invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*env.Options)

// WithEnvMap replaces the process environment with the given map.
func WithEnvMap(values map[string]string) Option {
	return func(o *env.Options) {
		o.Environment = values
	}
}

// Load parses the configuration from the environment and validates it.
func Load(opts ...Option) (Config, error) {
	var options env.Options
	for _, opt := range opts {
		opt(&options)
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, options); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ListenAddress returns the address the HTTP server binds to.
func (c Config) ListenAddress() string {
	if c.Server.Address != "" {
		return c.Server.Address
	}
	return ":" + c.Server.Port
}

func (c *Config) normalize() {
	c.Server.Address = strings.TrimSpace(c.Server.Address)
	c.Server.Port = strings.TrimSpace(c.Server.Port)
	if c.Server.Port == "" {
		c.Server.Port = defaultPort
	}
	c.Site.BaseURL = strings.TrimRight(strings.TrimSpace(c.Site.BaseURL), "/")
	c.Site.DefaultLocale = strings.ToLower(strings.TrimSpace(c.Site.DefaultLocale))
	c.Site.CalculatorUpstream = strings.TrimSpace(c.Site.CalculatorUpstream)
	c.Site.Environment = strings.ToLower(strings.TrimSpace(c.Site.Environment))
}

func (c Config) validate() error {
	var invalid []string
	if c.Server.ReadTimeout <= 0 {
		invalid = append(invalid, "Server.ReadTimeout")
	}
	if c.Server.WriteTimeout <= 0 {
		invalid = append(invalid, "Server.WriteTimeout")
	}
	if c.Server.HandlerTimeout <= 0 {
		invalid = append(invalid, "Server.HandlerTimeout")
	}
	if c.Site.DefaultLocale == "" {
		invalid = append(invalid, "Site.DefaultLocale")
	}
	if c.Site.BaseURL != "" && !isAbsoluteHTTPURL(c.Site.BaseURL) {
		invalid = append(invalid, "Site.BaseURL")
	}
	if c.Site.CalculatorUpstream != "" && !isAbsoluteHTTPURL(c.Site.CalculatorUpstream) {
		invalid = append(invalid, "Site.CalculatorUpstream")
	}
	if len(invalid) > 0 {
		return &ValidationError{fields: invalid}
	}
	return nil
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
