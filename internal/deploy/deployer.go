package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalogpress/internal/catalog"
	"catalogpress/internal/config"
	"catalogpress/internal/contentrepo"
	"catalogpress/internal/editstore"
	"catalogpress/internal/logging"
	"catalogpress/internal/services"
)

// Identity is the already-authenticated caller triggering a deployment.
// Verifying credentials and role membership belongs to the auth collaborator;
// the orchestrator only re-checks the admin bit it was handed.
type Identity struct {
	ID    string
	Name  string
	Admin bool
}

// EditStore is the slice of edit persistence the orchestrator needs.
type EditStore interface {
	GetByID(ctx context.Context, id int64) (*editstore.Edit, error)
	MarkDeployed(ctx context.Context, id int64, revision, reviewerID string, at time.Time) error
}

// RepositoryClient is the slice of the content repository the orchestrator
// and inspector need.
type RepositoryClient interface {
	Fetch(ctx context.Context, path string) (contentrepo.FileState, error)
	Commit(ctx context.Context, path string, content []byte, message, priorRevision string) (string, error)
}

// Result reports a completed deployment.
type Result struct {
	Revision string
	Message  string
	Warning  string
}

// Deployer executes the approve-to-deployed transition for one edit at a
// time. It holds no state between invocations; concurrent runs race only on
// the store's conditional updates and the repository's conditional commits.
type Deployer struct {
	store      EditStore
	repo       RepositoryClient
	contentDir string
	extension  string
	defaultSum string
	logger     *slog.Logger
}

// NewDeployer wires an orchestrator from injected dependencies.
func NewDeployer(store EditStore, repo RepositoryClient, cfg *config.Config, logger *slog.Logger) *Deployer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Deployer{
		store:      store,
		repo:       repo,
		contentDir: cfg.Upstream.ContentDir,
		extension:  cfg.Upstream.FileExtension,
		defaultSum: cfg.Deploy.DefaultChangeSummary,
		logger:     logger.With(logging.String(logging.FieldComponent, "deploy")),
	}
}

// Deploy drives one edit through load, guard, materialize, encode, commit,
// and finalize. Every failure before commit leaves no side effects and is
// safe to retry with the same edit id.
func (d *Deployer) Deploy(ctx context.Context, editID int64, actor Identity) (*Result, error) {
	if !actor.Admin {
		return nil, services.Wrap(services.ErrAuth, "deploy", "guard", fmt.Sprintf("identity %s lacks the admin role", actor.ID), nil)
	}

	ctx = services.WithEditID(ctx, editID)
	ctx = services.WithRequestID(ctx, uuid.NewString())

	edit, err := d.store.GetByID(ctx, editID)
	if err != nil {
		return nil, err
	}
	ctx = services.WithTargetID(ctx, edit.TargetID)
	logger := logging.WithContext(ctx, d.logger)

	if edit.Status != editstore.StatusApproved {
		return nil, services.Wrap(
			services.ErrInvalidState,
			"deploy", "guard",
			fmt.Sprintf("edit %d is %s, expected %s", edit.ID, edit.Status, editstore.StatusApproved),
			nil,
		)
	}

	path, err := catalog.PathFor(d.contentDir, edit.TargetID, d.extension)
	if err != nil {
		return nil, err
	}

	record, priorRevision, err := d.materialize(ctx, edit, path, logger)
	if err != nil {
		return nil, err
	}

	encoded, err := catalog.Encode(edit.TargetID, record)
	if err != nil {
		return nil, err
	}

	message := d.commitMessage(edit, record, actor)
	revision, err := d.repo.Commit(ctx, path, encoded, message, priorRevision)
	if err != nil {
		logger.Error("commit failed",
			logging.String("path", path),
			logging.Error(err),
		)
		return nil, err
	}
	logger.Info("committed canonical content",
		logging.String("path", path),
		logging.String(logging.FieldRevision, revision),
	)

	deployedAt := time.Now().UTC()
	if err := d.store.MarkDeployed(ctx, edit.ID, revision, actor.ID, deployedAt); err != nil {
		// Content is committed but the edit still reads approved. Not
		// reconciled automatically: finalize is idempotent, so re-running
		// it with this revision is the manual fix.
		logger.Error("finalize failed after successful commit",
			logging.String(logging.FieldRevision, revision),
			logging.Error(err),
		)
		return nil, fmt.Errorf("content committed as %s but edit %d not finalized: %w", revision, edit.ID, err)
	}

	result := &Result{
		Revision: revision,
		Message:  fmt.Sprintf("Deployed %s (edit %d) as revision %s", record.DisplayName(edit.TargetID), edit.ID, revision),
	}
	if len(edit.TierEdits) > 0 {
		result.Warning = fmt.Sprintf("%d tier rating change(s) were not applied and need separate manual action", len(edit.TierEdits))
	}
	logger.Info("deployment complete", logging.String(logging.FieldRevision, revision))
	return result, nil
}

// materialize produces the record to publish. Field patches mutate the
// current canonical record; full replacements skip the fetch entirely. The
// returned revision is what the record was derived from, empty for full
// replacements, and feeds the conditional commit.
func (d *Deployer) materialize(ctx context.Context, edit *editstore.Edit, path string, logger *slog.Logger) (catalog.Record, string, error) {
	switch edit.Payload.Kind {
	case editstore.PayloadFullReplace:
		return edit.Payload.Record, "", nil
	case editstore.PayloadFieldPatch:
		state, err := d.repo.Fetch(ctx, path)
		if err != nil {
			return nil, "", err
		}
		record, err := catalog.Decode(state.Content)
		if err != nil {
			return nil, "", err
		}
		if err := catalog.ApplyAll(record, edit.Payload.Patches); err != nil {
			return nil, "", err
		}
		logger.Debug("applied field patches",
			logging.Int("patches", len(edit.Payload.Patches)),
			logging.String(logging.FieldRevision, state.Revision),
		)
		return record, state.Revision, nil
	default:
		return nil, "", services.Wrap(
			services.ErrValidation,
			"deploy", "materialize",
			fmt.Sprintf("edit %d has no usable payload", edit.ID),
			nil,
		)
	}
}

func (d *Deployer) commitMessage(edit *editstore.Edit, record catalog.Record, actor Identity) string {
	summary := strings.TrimSpace(edit.ChangeSummary)
	if summary == "" {
		summary = d.defaultSum
	}
	approver := actor.Name
	if approver == "" {
		approver = actor.ID
	}
	return fmt.Sprintf("Update %s: %s\n\nEdit #%d, approved by %s",
		record.DisplayName(edit.TargetID), summary, edit.ID, approver)
}
