package offence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/database"
)

type offenceRow struct {
	Code       string    `db:"offence_code"`
	Weightings string    `db:"weightings"`
	Flags      string    `db:"flags"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type syncRunRow struct {
	RunID      string    `db:"run_id"`
	Added      int       `db:"added"`
	Updated    int       `db:"updated"`
	Deleted    int       `db:"deleted"`
	Unchanged  int       `db:"unchanged"`
	DurationMs int64     `db:"duration_ms"`
	CreatedAt  time.Time `db:"created_at"`
}

// SQLRepository persists offence records in the offence_codes table.
type SQLRepository struct {
	db  *database.DB
	now func() time.Time
}

// NewSQLRepository creates a repository over an opened, migrated database.
func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{db: db, now: time.Now}
}

// LoadAll returns every stored record.
func (r *SQLRepository) LoadAll(ctx context.Context) ([]Record, error) {
	var rows []offenceRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT offence_code, weightings, flags, updated_at FROM offence_codes ORDER BY offence_code`); err != nil {
		return nil, fmt.Errorf("failed to query offence codes: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Get returns the stored record for code.
func (r *SQLRepository) Get(ctx context.Context, code string) (Record, error) {
	var row offenceRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(
		`SELECT offence_code, weightings, flags, updated_at FROM offence_codes WHERE offence_code = ?`), code)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to query offence code: %w", err)
	}
	return row.record()
}

// Apply writes upserts and deletes in one transaction.
func (r *SQLRepository) Apply(ctx context.Context, upserts []Record, deletes []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := tx.Rebind(`INSERT INTO offence_codes (offence_code, weightings, flags, updated_at)
		VALUES (?, ?, ?, ?) ON CONFLICT(offence_code) DO UPDATE SET
		weightings = excluded.weightings,
		flags = excluded.flags,
		updated_at = excluded.updated_at`)
	now := r.now().UTC()
	for _, rec := range upserts {
		row, err := newOffenceRow(rec, now)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upsert, row.Code, row.Weightings, row.Flags, row.UpdatedAt); err != nil {
			return fmt.Errorf("failed to upsert offence code %s: %w", rec.Code, err)
		}
	}

	if len(deletes) > 0 {
		query, args, err := sqlx.In(`DELETE FROM offence_codes WHERE offence_code IN (?)`, deletes)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to delete offence codes: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit offence sync: %w", err)
	}
	return nil
}

// RecordSyncRun stores the summary of a completed sync.
func (r *SQLRepository) RecordSyncRun(ctx context.Context, result SyncResult) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO offence_sync_runs
		(run_id, added, updated, deleted, unchanged, duration_ms, created_at)
		VALUES (:run_id, :added, :updated, :deleted, :unchanged, :duration_ms, :created_at)`,
		syncRunRow{
			RunID:      result.RunID,
			Added:      result.Added,
			Updated:    result.Updated,
			Deleted:    result.Deleted,
			Unchanged:  result.Unchanged,
			DurationMs: result.DurationMs,
			CreatedAt:  r.now().UTC(),
		})
	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}
	return nil
}

// LastSyncRun returns the most recent sync summary, or false if none exists.
func (r *SQLRepository) LastSyncRun(ctx context.Context) (SyncResult, bool, error) {
	var row syncRunRow
	err := r.db.GetContext(ctx, &row, `SELECT run_id, added, updated, deleted, unchanged, duration_ms, created_at
		FROM offence_sync_runs ORDER BY created_at DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return SyncResult{}, false, nil
	}
	if err != nil {
		return SyncResult{}, false, fmt.Errorf("failed to query sync runs: %w", err)
	}
	return SyncResult{
		RunID:      row.RunID,
		Added:      row.Added,
		Updated:    row.Updated,
		Deleted:    row.Deleted,
		Unchanged:  row.Unchanged,
		DurationMs: row.DurationMs,
	}, true, nil
}

func newOffenceRow(rec Record, now time.Time) (offenceRow, error) {
	weightings, err := json.Marshal(nonNilWeightings(rec.Weightings))
	if err != nil {
		return offenceRow{}, fmt.Errorf("failed to encode weightings for %s: %w", rec.Code, err)
	}
	flags, err := json.Marshal(nonNilFlags(rec.Flags))
	if err != nil {
		return offenceRow{}, fmt.Errorf("failed to encode flags for %s: %w", rec.Code, err)
	}
	return offenceRow{Code: rec.Code, Weightings: string(weightings), Flags: string(flags), UpdatedAt: now}, nil
}

func (row offenceRow) record() (Record, error) {
	rec := Record{Code: row.Code}
	if err := json.Unmarshal([]byte(row.Weightings), &rec.Weightings); err != nil {
		return Record{}, fmt.Errorf("failed to decode weightings for %s: %w", row.Code, err)
	}
	if err := json.Unmarshal([]byte(row.Flags), &rec.Flags); err != nil {
		return Record{}, fmt.Errorf("failed to decode flags for %s: %w", row.Code, err)
	}
	return rec, nil
}

func nonNilWeightings(m map[WeightingName]Weighting) map[WeightingName]Weighting {
	if m == nil {
		return map[WeightingName]Weighting{}
	}
	return m
}

func nonNilFlags(m map[FlagName]bool) map[FlagName]bool {
	if m == nil {
		return map[FlagName]bool{}
	}
	return m
}
