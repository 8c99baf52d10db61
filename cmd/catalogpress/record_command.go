package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalogpress/internal/catalog"
	"catalogpress/internal/deploy"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "Inspect canonical records in the content repository",
	}

	recordCmd.AddCommand(newRecordShowCommand(ctx))
	return recordCmd
}

func newRecordShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <target-id>",
		Short: "Show the current canonical record for a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetID := args[0]
			if !catalog.ValidTargetID(targetID) {
				return fmt.Errorf("invalid target id %q", targetID)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			repo, err := ctx.repository()
			if err != nil {
				return err
			}

			inspector := deploy.NewInspector(repo, cfg)
			record, revision, err := inspector.Record(cmd.Context(), targetID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) at revision %s\n", record.DisplayName(targetID), targetID, revision)
			return writeJSON(cmd, record)
		},
	}
}
