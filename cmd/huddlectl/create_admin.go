package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"gohuddleup/internal/adapters/backend"
	"gohuddleup/internal/application/orchestrators"
	"gohuddleup/internal/domain/user"
)

const (
	emailFlag    = "email"
	passwordFlag = "password"
	roleFlag     = "role"
	scopeFlag    = "scope"
	stateFlag    = "state"
)

// DefaultAdminEmail is the address of the bootstrap admin.
const DefaultAdminEmail = "admin@gohuddleup.com"

var errNoStates = errors.New("no states found: run huddlectl seed first")

func createAdminFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		emailFlag: &cobraflags.StringFlag{
			Name:  emailFlag,
			Value: DefaultAdminEmail,
			Usage: "Sign-in email of the new admin",
		},
		passwordFlag: &cobraflags.StringFlag{
			Name:  passwordFlag,
			Value: "",
			Usage: "Password of the new admin. If empty, one is generated and printed",
		},
		roleFlag: &cobraflags.StringFlag{
			Name:  roleFlag,
			Value: user.RoleSuper,
			Usage: "Admin role (SUPER, STATE, REGION, SCHOOL)",
		},
		scopeFlag: &cobraflags.StringFlag{
			Name:  scopeFlag,
			Value: "",
			Usage: "Scope id (state, region or school id). Defaults to the state named by --state",
		},
		stateFlag: &cobraflags.StringFlag{
			Name:  stateFlag,
			Value: "",
			Usage: "State code used as scope when --scope is empty. Defaults to the first state",
		},
	}
}

func newCreateAdminCommand(load loader) *cobra.Command {
	flags := createAdminFlags()
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an admin account with the service key",
		Long: `Provision a confirmed admin identity, its users row and its role assignment.

With no flags this bootstraps the first SUPER admin, admin@gohuddleup.com,
scoped to the first state. The states must be seeded first.`,
		Args: cobra.NoArgs,
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

			scopeID := flags[scopeFlag].GetString()
			if scopeID == "" {
				scopeID, err = defaultScope(ctx, server, flags[stateFlag].GetString())
				if err != nil {
					return err
				}
			}
			password := flags[passwordFlag].GetString()
			generated := password == ""
			if generated {
				password = rand.Text()
			}

			res, err := orchestrators.ExecuteCreateAdminUser(ctx, orchestrators.CreateAdminUserInput{
				Email:    flags[emailFlag].GetString(),
				Password: password,
				Role:     flags[roleFlag].GetString(),
				ScopeID:  scopeID,
				Operator: true,
			}, orchestrators.CreateAdminUserDeps{
				Admin:     server.Admin(),
				Directory: server.Schools(),
				Tx:        server.WithTx,
				Now:       time.Now,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "admin created: %s\n", res.User.Email)
			fmt.Fprintf(out, "role: %s %s %s\n", res.Assignment.Role, res.Assignment.ScopeType, res.Assignment.ScopeID)
			if generated {
				fmt.Fprintf(out, "password: %s\n", password)
			}
			fmt.Fprintln(out, "change the password after the first sign-in")
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

// defaultScope resolves the state used as scope: the one named by code, or the
// first state in name order.
func defaultScope(ctx context.Context, server *backend.ServerClient, code string) (string, error) {
	if code != "" {
		st, err := server.Schools().GetStateByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("state %s: %w", code, err)
		}
		return st.ID, nil
	}
	states, err := server.Schools().ListStates(ctx)
	if err != nil {
		return "", err
	}
	if len(states) == 0 {
		return "", errNoStates
	}
	return states[0].ID, nil
}
