package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gohuddleup/internal/adapters/backend"
	web "gohuddleup/internal/adapters/http"
	"gohuddleup/internal/adapters/http/middleware"
	"gohuddleup/internal/adapters/http/perf"
	"gohuddleup/internal/application/orchestrators"
	"gohuddleup/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.Logger(os.Stderr))

	if err := cfg.RequireBackend(); err != nil {
		return err
	}
	csrfKey, err := cfg.CSRFSecret()
	if err != nil {
		return err
	}
	if cfg.CSRFKey == "" {
		slog.Warn("csrf_key_random", "hint", "set HUDDLE_CSRF_KEY so forms survive restarts")
	}
	if cfg.ResendKey == "" && cfg.IsProduction() {
		slog.Warn("email_disabled", "hint", "HUDDLE_RESEND_KEY is not set; confirmation mail is not delivered")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := backend.Open(ctx, cfg.Backend(cfg.Sender()))
	if err != nil {
		return err
	}
	defer svc.Close()

	client, err := svc.Client()
	if err != nil {
		return err
	}
	server, err := svc.ServerClient()
	if err != nil {
		return err
	}

	inserted, err := orchestrators.ExecuteSeedStates(ctx, orchestrators.SeedDeps{Directory: server.Schools(), Now: time.Now})
	if err != nil {
		return err
	}
	if inserted > 0 {
		slog.Info("states_seeded", "inserted", inserted)
	}

	middleware.SecureCookies = cfg.IsProduction()
	handler, err := web.NewMux(web.Deps{
		Client:             client,
		Server:             server,
		Collector:          perf.NewCollector(perf.DefaultRingSize),
		CSRFKey:            csrfKey,
		TrustedOrigins:     cfg.TrustedOrigins,
		SessionTTL:         cfg.SessionTTL,
		SlowRequest:        cfg.SlowRequest(),
		RateLimitPerSecond: cfg.RateLimit,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
