// Package config reads the HUDDLE_* environment into one typed struct and
// derives the backend, mailer and logger settings from it.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"gohuddleup/internal/adapters/backend"
	"gohuddleup/internal/adapters/email"
)

// EnvProduction is the HUDDLE_ENV value that turns on production behavior.
const EnvProduction = "production"

// csrfKeyBytes is the decoded length of HUDDLE_CSRF_KEY.
const csrfKeyBytes = 32

// ErrInvalidCSRFKey is returned for a CSRF key that is not 64 hex characters,
// or a missing one in production.
var ErrInvalidCSRFKey = errors.New("HUDDLE_CSRF_KEY must be 64 hex characters")

// Config is the process configuration.
type Config struct {
	Env      string     `env:"HUDDLE_ENV"       envDefault:"development"`
	Addr     string     `env:"HUDDLE_ADDR"      envDefault:":8080"`
	BaseURL  string     `env:"HUDDLE_BASE_URL"  envDefault:"http://localhost:8080"`
	LogLevel slog.Level `env:"HUDDLE_LOG_LEVEL" envDefault:"info"`

	BackendURL     string        `env:"HUDDLE_BACKEND_URL"`
	AnonKey        string        `env:"HUDDLE_BACKEND_ANON_KEY"`
	ServiceRoleKey string        `env:"HUDDLE_BACKEND_SERVICE_ROLE_KEY"`
	JWTSecret      string        `env:"HUDDLE_JWT_SECRET"`
	SessionTTL     time.Duration `env:"HUDDLE_SESSION_TTL" envDefault:"24h"`
	RedisURL       string        `env:"HUDDLE_REDIS_URL"`
	SlowQueryMS    int           `env:"HUDDLE_SLOW_QUERY_MS" envDefault:"50"`
	SlowRequestMS  int           `env:"HUDDLE_SLOW_REQUEST_MS" envDefault:"200"`

	CSRFKey        string   `env:"HUDDLE_CSRF_KEY"`
	TrustedOrigins []string `env:"HUDDLE_TRUSTED_ORIGINS" envSeparator:","`
	RateLimit      int      `env:"HUDDLE_RATE_LIMIT" envDefault:"10"`

	ResendKey string `env:"HUDDLE_RESEND_KEY"`
	EmailFrom string `env:"HUDDLE_EMAIL_FROM" envDefault:"goHuddleUp <noreply@gohuddleup.com>"`
	ReplyTo   string `env:"HUDDLE_REPLY_TO"   envDefault:"support@gohuddleup.com"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether HUDDLE_ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// SlowQuery returns the slow-query log threshold.
func (c Config) SlowQuery() time.Duration {
	return time.Duration(c.SlowQueryMS) * time.Millisecond
}

// SlowRequest returns the threshold above which requests log at WARN.
func (c Config) SlowRequest() time.Duration {
	return time.Duration(c.SlowRequestMS) * time.Millisecond
}

// RequireBackend checks the settings needed to open the backend with both handles.
// PRE: none
// POST: Returns an error wrapping backend.ErrNotConfigured naming the first missing value
func (c Config) RequireBackend() error {
	switch {
	case c.BackendURL == "":
		return backend.ErrMissingURL
	case c.AnonKey == "":
		return backend.ErrMissingAnonKey
	case c.ServiceRoleKey == "":
		return backend.ErrMissingServiceKey
	case c.JWTSecret == "":
		return backend.ErrMissingJWTSecret
	}
	return nil
}

// CSRFSecret decodes HUDDLE_CSRF_KEY. Outside production a missing key is
// replaced by a random one, which invalidates forms across restarts.
func (c Config) CSRFSecret() ([]byte, error) {
	if c.CSRFKey == "" {
		if c.IsProduction() {
			return nil, ErrInvalidCSRFKey
		}
		key := make([]byte, csrfKeyBytes)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		return key, nil
	}
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil || len(key) != csrfKeyBytes {
		return nil, ErrInvalidCSRFKey
	}
	return key, nil
}

// Sender returns the Resend sender when an API key is configured, otherwise a
// sender that only records messages.
func (c Config) Sender() email.Sender {
	if c.ResendKey == "" {
		return email.NewNoopSender()
	}
	return email.NewResendSender(c.ResendKey, c.EmailFrom, c.ReplyTo)
}

// Backend builds the backend configuration.
func (c Config) Backend(sender email.Sender) backend.Config {
	return backend.Config{
		URL:        c.BackendURL,
		AnonKey:    c.AnonKey,
		ServiceKey: c.ServiceRoleKey,
		JWTSecret:  c.JWTSecret,
		SessionTTL: c.SessionTTL,
		RedisURL:   c.RedisURL,
		SlowQuery:  c.SlowQuery(),
		BaseURL:    c.BaseURL,
		Sender:     sender,
		From:       c.EmailFrom,
		ReplyTo:    c.ReplyTo,
	}
}

// Logger returns a JSON logger in production and a text logger otherwise.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
