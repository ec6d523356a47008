package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gohuddleup/internal/application/orchestrators"
)

func newSeedCommand(load loader) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the US states, and with --demo a sample region, school and huddle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, load)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			svc, server, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			deps := orchestrators.SeedDeps{Directory: server.Schools(), Now: time.Now}
			out := cmd.OutOrStdout()
			if !demo {
				inserted, err := orchestrators.ExecuteSeedStates(ctx, deps)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "states inserted: %d\n", inserted)
				return nil
			}
			res, err := orchestrators.ExecuteSeedDemo(ctx, deps)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "school %q (%s) in %s, %s\n", res.School.Name, res.School.ID, res.Region.Name, res.State.Code)
			fmt.Fprintf(out, "huddle %q (%s)\n", res.Huddle.Name, res.Huddle.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "Also create a sample region, school and huddle")
	return cmd
}
