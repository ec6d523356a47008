package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gohuddleup/internal/adapters/session"
)

func newKeysCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Mint the anon and service_role API keys from HUDDLE_JWT_SECRET",
		Long: `Mint the two API keys the server needs, signed with HUDDLE_JWT_SECRET.

The output is in env file form and can be appended to the deployment's
environment. The service_role key bypasses every scope check: keep it on the
server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, load)
			if err != nil {
				return err
			}
			tokens, err := session.NewTokens([]byte(cfg.JWTSecret))
			if err != nil {
				return fmt.Errorf("HUDDLE_JWT_SECRET: %w", err)
			}
			anon, err := tokens.MintAPIKey(session.KeyRoleAnon)
			if err != nil {
				return err
			}
			service, err := tokens.MintAPIKey(session.KeyRoleService)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "HUDDLE_BACKEND_ANON_KEY=%s\n", anon)
			fmt.Fprintf(out, "HUDDLE_BACKEND_SERVICE_ROLE_KEY=%s\n", service)
			return nil
		},
	}
}
