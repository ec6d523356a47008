// Package backend is the self-hosted auth and data service the application
// talks to through a client handle. A Service owns the database, the session
// store and the token signer; Client and ServerClient are the public and
// privileged handles onto it.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gohuddleup/internal/adapters/email"
	"gohuddleup/internal/adapters/session"
	"gohuddleup/internal/adapters/storage"
)

// DefaultSessionTTL is the access token lifetime when Config leaves it unset.
const DefaultSessionTTL = 24 * time.Hour

// Configuration errors. Each wraps ErrNotConfigured.
var (
	ErrNotConfigured     = errors.New("backend is not configured")
	ErrMissingURL        = fmt.Errorf("%w: backend url is missing", ErrNotConfigured)
	ErrMissingAnonKey    = fmt.Errorf("%w: public api key is missing", ErrNotConfigured)
	ErrMissingServiceKey = fmt.Errorf("%w: service role key is missing", ErrNotConfigured)
	ErrMissingJWTSecret  = fmt.Errorf("%w: jwt secret is missing", ErrNotConfigured)
	ErrInvalidAPIKey     = fmt.Errorf("%w: api key was not issued by this backend", ErrNotConfigured)
)

// Config describes how to reach and run the backend.
type Config struct {
	URL        string
	AnonKey    string
	ServiceKey string
	JWTSecret  string
	SessionTTL time.Duration
	// RedisURL moves sessions out of process memory when set.
	RedisURL  string
	SlowQuery time.Duration
	// BaseURL prefixes the links in confirmation mail.
	BaseURL string
	Sender  email.Sender
	From    string
	ReplyTo string
	Now     func() time.Time
}

// Service is an opened backend.
type Service struct {
	cfg      Config
	db       *storage.DB
	sessions session.Store
	closer   func() error
	tokens   *session.Tokens
	mailer   *Mailer
	now      func() time.Time
}

// Open connects to the data store named by cfg.URL, applies migrations and
// prepares the session store.
// PRE: cfg.URL and cfg.JWTSecret are set
// POST: Returns an error wrapping ErrNotConfigured when either is missing
func Open(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.URL == "" {
		return nil, ErrMissingURL
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	tokens, err := session.NewTokens([]byte(cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Sender == nil {
		cfg.Sender = email.NewNoopSender()
	}

	db, err := storage.Open(ctx, cfg.URL, storage.Options{SlowQuery: cfg.SlowQuery})
	if err != nil {
		return nil, fmt.Errorf("open backend store: %w", err)
	}

	svc := &Service{
		cfg:    cfg,
		db:     db,
		tokens: tokens,
		mailer: NewMailer(cfg.Sender, cfg.BaseURL, cfg.From, cfg.ReplyTo),
		now:    cfg.Now,
	}
	if cfg.RedisURL != "" {
		rs, err := session.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			db.Close()
			return nil, err
		}
		svc.sessions, svc.closer = rs, rs.Close
	} else {
		svc.sessions = session.NewMemoryStore()
	}

	slog.Info("backend_opened", "dialect", db.Dialect().String(), "redis_sessions", cfg.RedisURL != "")
	return svc, nil
}

// Close releases the database and session store.
func (s *Service) Close() error {
	var errs []error
	if s.closer != nil {
		errs = append(errs, s.closer())
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

// DB returns the underlying database. Read models and maintenance commands
// query it directly; application writes go through a client handle.
func (s *Service) DB() *storage.DB {
	return s.db
}

// Ping checks the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Client returns the public handle.
// PRE: none
// POST: Returns ErrMissingAnonKey or ErrInvalidAPIKey instead of a handle when
// the public key is absent or was not signed by this backend
func (s *Service) Client() (*Client, error) {
	if s == nil || s.cfg.URL == "" {
		return nil, ErrMissingURL
	}
	if s.cfg.AnonKey == "" {
		return nil, ErrMissingAnonKey
	}
	role, err := s.tokens.ParseAPIKey(s.cfg.AnonKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	}
	return newClient(s, role), nil
}

// ServerClient returns the privileged handle.
// PRE: none
// POST: Returns ErrMissingServiceKey, or ErrInvalidAPIKey for a key without the service_role role
func (s *Service) ServerClient() (*ServerClient, error) {
	if s == nil || s.cfg.URL == "" {
		return nil, ErrMissingURL
	}
	if s.cfg.ServiceKey == "" {
		return nil, ErrMissingServiceKey
	}
	role, err := s.tokens.ParseAPIKey(s.cfg.ServiceKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	}
	if role != session.KeyRoleService {
		return nil, fmt.Errorf("%w: key role is %s", ErrInvalidAPIKey, role)
	}
	return &ServerClient{Client: newClient(s, role)}, nil
}

// Mailer returns the confirmation mailer.
func (s *Service) Mailer() *Mailer {
	return s.mailer
}
