package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"gohuddleup/internal/adapters/storage"
)

var errNoBackendURL = errors.New("HUDDLE_BACKEND_URL is not set")

func newMigrateCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, load)
			if err != nil {
				return err
			}
			if cfg.BackendURL == "" {
				return errNoBackendURL
			}
			ctx := cmd.Context()
			// Open migrates before returning.
			db, err := storage.Open(ctx, cfg.BackendURL, storage.Options{SlowQuery: cfg.SlowQuery()})
			if err != nil {
				return err
			}
			defer db.Close()
			version, err := storage.CurrentVersion(ctx, db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (%s)\n", version, db.Dialect())
			return nil
		},
	}
}
