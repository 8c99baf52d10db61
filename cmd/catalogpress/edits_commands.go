package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"catalogpress/internal/catalog"
	"catalogpress/internal/editstore"
)

func newEditsCommand(ctx *commandContext) *cobra.Command {
	editsCmd := &cobra.Command{
		Use:   "edits",
		Short: "Inspect and manage edit proposals",
	}

	editsCmd.AddCommand(newEditsListCommand(ctx))
	editsCmd.AddCommand(newEditsShowCommand(ctx))
	editsCmd.AddCommand(newEditsCreateCommand(ctx))
	editsCmd.AddCommand(newEditsReviewCommand(ctx, "approve", "Approve a pending edit", (*editstore.Store).Approve))
	editsCmd.AddCommand(newEditsReviewCommand(ctx, "reject", "Reject a pending edit", (*editstore.Store).Reject))
	editsCmd.AddCommand(newEditsStatsCommand(ctx))

	return editsCmd
}

func newEditsListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List edit proposals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *editstore.Store) error {
				var statuses []editstore.Status
				for _, raw := range listStatuses {
					status := editstore.Status(strings.TrimSpace(raw))
					if !editstore.ValidStatus(status) {
						return fmt.Errorf("unknown status %q", raw)
					}
					statuses = append(statuses, status)
				}

				edits, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if len(edits) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No edits found")
					return nil
				}

				colorize := shouldColorize(cmd.OutOrStdout())
				rows := make([][]string, 0, len(edits))
				for _, edit := range edits {
					rows = append(rows, []string{
						strconv.FormatInt(edit.ID, 10),
						edit.TargetID,
						string(edit.Payload.Kind),
						colorizeStatus(edit.Status, colorize),
						edit.EditorID,
						edit.UpdatedAt.Format(time.RFC3339),
					})
				}
				out := renderTable(
					[]string{"ID", "Target", "Kind", "Status", "Editor", "Updated"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by edit status (repeatable)")
	return cmd
}

func newEditsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <edit-id>",
		Short: "Show one edit in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEditID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *editstore.Store) error {
				edit, err := store.GetByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				return writeJSON(cmd, edit)
			})
		},
	}
}

func newEditsCreateCommand(ctx *commandContext) *cobra.Command {
	var targetID string
	var summary string
	var patches []string
	var tierEdits []string
	var recordFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Propose a new edit",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := ctx.actor()
			if err != nil {
				return err
			}

			payload, err := buildPayload(recordFile, patches)
			if err != nil {
				return err
			}
			tiers, err := parsePairs(tierEdits)
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *editstore.Store) error {
				edit, err := store.Create(cmd.Context(), editstore.Draft{
					TargetID:      strings.TrimSpace(targetID),
					Payload:       payload,
					TierEdits:     tiers,
					EditorID:      actor,
					ChangeSummary: strings.TrimSpace(summary),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created edit %d for %s (%s)\n", edit.ID, edit.TargetID, edit.Status)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&targetID, "target", "t", "", "Target record identifier")
	cmd.Flags().StringVarP(&summary, "summary", "m", "", "Change summary used in the commit message")
	cmd.Flags().StringArrayVarP(&patches, "patch", "p", nil, "Field patch as path=value; value parses as JSON, else string (repeatable)")
	cmd.Flags().StringArrayVar(&tierEdits, "tier", nil, "Tier rating change as list=rating (recorded, not deployed; repeatable)")
	cmd.Flags().StringVar(&recordFile, "record-file", "", "JSON file holding a full replacement record")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newEditsReviewCommand(ctx *commandContext, verb, short string, review func(*editstore.Store, context.Context, int64, string) (*editstore.Edit, error)) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <edit-id>",
		Short: short,
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
			return ctx.withStore(func(store *editstore.Store) error {
				edit, err := review(store, cmd.Context(), id, actor)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Edit %d is now %s (reviewed by %s)\n", edit.ID, edit.Status, edit.ReviewerID)
				return nil
			})
		},
	}
}

func newEditsStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show edit counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *editstore.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if len(stats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No edits found")
					return nil
				}
				rows := make([][]string, 0, len(stats))
				for _, status := range []editstore.Status{
					editstore.StatusPending,
					editstore.StatusApproved,
					editstore.StatusRejected,
					editstore.StatusDeployed,
				} {
					if count, ok := stats[status]; ok {
						rows = append(rows, []string{string(status), strconv.Itoa(count)})
					}
				}
				out := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func parseEditID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid edit id %q", raw)
	}
	return id, nil
}

func buildPayload(recordFile string, patches []string) (editstore.Payload, error) {
	recordFile = strings.TrimSpace(recordFile)
	if recordFile != "" && len(patches) > 0 {
		return editstore.Payload{}, fmt.Errorf("specify either --record-file or --patch, not both")
	}

	if recordFile != "" {
		data, err := os.ReadFile(recordFile)
		if err != nil {
			return editstore.Payload{}, fmt.Errorf("read record file: %w", err)
		}
		var record catalog.Record
		if err := json.Unmarshal(data, &record); err != nil {
			return editstore.Payload{}, fmt.Errorf("parse record file: %w", err)
		}
		return editstore.FullReplace(record), nil
	}

	if len(patches) == 0 {
		return editstore.Payload{}, fmt.Errorf("an edit needs --record-file or at least one --patch")
	}
	parsed := make(map[string]any, len(patches))
	for _, raw := range patches {
		path, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(path) == "" {
			return editstore.Payload{}, fmt.Errorf("patch %q is not path=value", raw)
		}
		parsed[strings.TrimSpace(path)] = parsePatchValue(value)
	}
	return editstore.FieldPatch(parsed), nil
}

// parsePatchValue interprets the value as JSON when possible so numbers and
// booleans keep their types; anything else stays a string.
func parsePatchValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}
	return raw
}

func parsePairs(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	pairs := make(map[string]string, len(raw))
	for _, entry := range raw {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("entry %q is not key=value", entry)
		}
		pairs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return pairs, nil
}
