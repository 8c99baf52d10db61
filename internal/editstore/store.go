package editstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"catalogpress/internal/config"
	"catalogpress/internal/services"
)

// Store manages edit persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the edit database and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "edits.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

const editColumns = "id, target_id, payload_kind, payload_json, tier_edits_json, status, editor_id, reviewer_id, change_summary, commit_revision, created_at, updated_at, reviewed_at, deployed_at"

// Create inserts a new pending edit proposal.
func (s *Store) Create(ctx context.Context, draft Draft) (*Edit, error) {
	if err := draft.Validate(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "editstore", "create", err.Error(), nil)
	}

	payloadJSON, err := json.Marshal(draft.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var tierEditsJSON sql.NullString
	if len(draft.TierEdits) > 0 {
		data, err := json.Marshal(draft.TierEdits)
		if err != nil {
			return nil, fmt.Errorf("marshal tier edits: %w", err)
		}
		tierEditsJSON = sql.NullString{String: string(data), Valid: true}
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO edits (
            target_id, payload_kind, payload_json, tier_edits_json, status,
            editor_id, change_summary, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.TargetID,
		string(draft.Payload.Kind),
		string(payloadJSON),
		tierEditsJSON,
		StatusPending,
		draft.EditorID,
		nullableString(draft.ChangeSummary),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert edit: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches one edit, classifying a missing row as not found.
func (s *Store) GetByID(ctx context.Context, id int64) (*Edit, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+editColumns+" FROM edits WHERE id = ?", id)
	edit, err := scanEdit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "editstore", "get", fmt.Sprintf("edit %d", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get edit %d: %w", id, err)
	}
	return edit, nil
}

// List returns edits, optionally filtered by status, newest first.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Edit, error) {
	query := "SELECT " + editColumns + " FROM edits"
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list edits: %w", err)
	}
	defer rows.Close()

	var edits []*Edit
	for rows.Next() {
		edit, err := scanEdit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan edit: %w", err)
		}
		edits = append(edits, edit)
	}
	return edits, rows.Err()
}

// Stats returns the count of edits per status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM edits GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("edit stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats[Status(status)] = count
	}
	return stats, rows.Err()
}

// Approve moves a pending edit to approved, recording the reviewer. The
// transition is a conditional update so concurrent reviewers cannot both win.
func (s *Store) Approve(ctx context.Context, id int64, reviewerID string) (*Edit, error) {
	return s.review(ctx, id, reviewerID, StatusApproved)
}

// Reject moves a pending edit to rejected, recording the reviewer.
func (s *Store) Reject(ctx context.Context, id int64, reviewerID string) (*Edit, error) {
	return s.review(ctx, id, reviewerID, StatusRejected)
}

func (s *Store) review(ctx context.Context, id int64, reviewerID string, to Status) (*Edit, error) {
	if strings.TrimSpace(reviewerID) == "" {
		return nil, services.Wrap(services.ErrValidation, "editstore", "review", "reviewer id is required", nil)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE edits SET status = ?, reviewer_id = ?, reviewed_at = ?, updated_at = ?
         WHERE id = ? AND status = ?`,
		string(to), reviewerID, now, now, id, string(StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("review edit %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("review edit %d: %w", id, err)
	}
	if affected == 0 {
		return nil, s.transitionFailure(ctx, id, to)
	}
	return s.GetByID(ctx, id)
}

// MarkDeployed finalizes an approved edit with the commit revision. The
// update is idempotent: repeating it with the revision already recorded on a
// deployed edit succeeds without modification. Re-finalizing with a different
// revision is refused.
func (s *Store) MarkDeployed(ctx context.Context, id int64, revision, reviewerID string, at time.Time) error {
	if strings.TrimSpace(revision) == "" {
		return services.Wrap(services.ErrValidation, "editstore", "finalize", "revision is required", nil)
	}
	timestamp := at.UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE edits SET status = ?, commit_revision = ?, reviewer_id = ?, deployed_at = ?, updated_at = ?
         WHERE id = ? AND (status = ? OR (status = ? AND commit_revision = ?))`,
		string(StatusDeployed), revision, reviewerID, timestamp, timestamp,
		id, string(StatusApproved), string(StatusDeployed), revision,
	)
	if err != nil {
		return fmt.Errorf("finalize edit %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finalize edit %d: %w", id, err)
	}
	if affected == 0 {
		return s.transitionFailure(ctx, id, StatusDeployed)
	}
	return nil
}

// transitionFailure explains why a conditional status update touched no rows.
func (s *Store) transitionFailure(ctx context.Context, id int64, to Status) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return services.Wrap(
		services.ErrInvalidState,
		"editstore", "transition",
		fmt.Sprintf("edit %d is %s, cannot become %s", id, current.Status, to),
		nil,
	)
}

func scanEdit(scanner interface{ Scan(dest ...any) error }) (*Edit, error) {
	var (
		id            int64
		targetID      string
		payloadKind   string
		payloadJSON   string
		tierEditsJSON sql.NullString
		statusStr     string
		editorID      string
		reviewerID    sql.NullString
		changeSummary sql.NullString
		revision      sql.NullString
		createdRaw    string
		updatedRaw    string
		reviewedRaw   sql.NullString
		deployedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&targetID,
		&payloadKind,
		&payloadJSON,
		&tierEditsJSON,
		&statusStr,
		&editorID,
		&reviewerID,
		&changeSummary,
		&revision,
		&createdRaw,
		&updatedRaw,
		&reviewedRaw,
		&deployedRaw,
	); err != nil {
		return nil, err
	}

	var payload Payload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload for edit %d: %w", id, err)
	}
	if payload.Kind == "" {
		payload.Kind = PayloadKind(payloadKind)
	}

	var tierEdits map[string]string
	if tierEditsJSON.Valid && tierEditsJSON.String != "" {
		if err := json.Unmarshal([]byte(tierEditsJSON.String), &tierEdits); err != nil {
			return nil, fmt.Errorf("unmarshal tier edits for edit %d: %w", id, err)
		}
	}

	edit := &Edit{
		ID:             id,
		TargetID:       targetID,
		Payload:        payload,
		TierEdits:      tierEdits,
		Status:         Status(statusStr),
		EditorID:       editorID,
		ReviewerID:     reviewerID.String,
		ChangeSummary:  changeSummary.String,
		CommitRevision: revision.String,
	}

	var err error
	if edit.CreatedAt, err = parseTimestamp(createdRaw); err != nil {
		return nil, fmt.Errorf("parse created_at for edit %d: %w", id, err)
	}
	if edit.UpdatedAt, err = parseTimestamp(updatedRaw); err != nil {
		return nil, fmt.Errorf("parse updated_at for edit %d: %w", id, err)
	}
	if edit.ReviewedAt, err = parseOptionalTimestamp(reviewedRaw); err != nil {
		return nil, fmt.Errorf("parse reviewed_at for edit %d: %w", id, err)
	}
	if edit.DeployedAt, err = parseOptionalTimestamp(deployedRaw); err != nil {
		return nil, fmt.Errorf("parse deployed_at for edit %d: %w", id, err)
	}
	return edit, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

func parseOptionalTimestamp(raw sql.NullString) (*time.Time, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	parsed, err := parseTimestamp(raw.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func nullableString(value string) sql.NullString {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: trimmed, Valid: true}
}
