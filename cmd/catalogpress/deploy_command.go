package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalogpress/internal/deploy"
	"catalogpress/internal/editstore"
	"catalogpress/internal/logging"
)

func newDeployCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy <edit-id>",
		Short: "Deploy an approved edit to the content repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEditID(args[0])
			if err != nil {
				return err
			}
			actor, err := ctx.actor()
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			repo, err := ctx.repository()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				logger = logging.NewNop()
			}

			return ctx.withStore(func(store *editstore.Store) error {
				deployer := deploy.NewDeployer(store, repo, cfg, logger)
				// Direct store access implies operator privileges.
				result, err := deployer.Deploy(cmd.Context(), id, deploy.Identity{ID: actor, Name: actor, Admin: true})
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, result.Message)
				if result.Warning != "" {
					fmt.Fprintf(out, "Warning: %s\n", result.Warning)
				}
				return nil
			})
		},
	}
}
