package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"gohuddleup/internal/adapters/backend"
	"gohuddleup/internal/config"
)

// loader reads the configuration. Tests swap in config.LoadFrom over a map.
type loader func() (config.Config, error)

func newRootCommand(load loader) *cobra.Command {
	root := &cobra.Command{
		Use:           "huddlectl",
		Short:         "Operate a goHuddleUp deployment",
		SilenceUsage: true,
	}
	root.AddCommand(
		newKeysCommand(load),
		newMigrateCommand(load),
		newSeedCommand(load),
		newCreateAdminCommand(load),
	)
	return root
}

// loadConfig loads the configuration and installs its logger as the default.
func loadConfig(cmd *cobra.Command, load loader) (config.Config, error) {
	cfg, err := load()
	if err != nil {
		return config.Config{}, err
	}
	slog.SetDefault(cfg.Logger(cmd.ErrOrStderr()))
	return cfg, nil
}

// openBackend opens the backend with both API keys present.
// PRE: cfg passes RequireBackend
// POST: The caller closes the returned service
func openBackend(ctx context.Context, cfg config.Config) (*backend.Service, *backend.ServerClient, error) {
	if err := cfg.RequireBackend(); err != nil {
		return nil, nil, err
	}
	svc, err := backend.Open(ctx, cfg.Backend(cfg.Sender()))
	if err != nil {
		return nil, nil, err
	}
	server, err := svc.ServerClient()
	if err != nil {
		svc.Close()
		return nil, nil, err
	}
	return svc, server, nil
}
