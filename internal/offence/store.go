package offence

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Persister stores the reference set durably. Apply must write upserts and
// deletes in a single transaction.
type Persister interface {
	LoadAll(ctx context.Context) ([]Record, error)
	Apply(ctx context.Context, upserts []Record, deletes []string) error
}

// RunRecorder is implemented by persisters that keep a history of syncs.
type RunRecorder interface {
	RecordSyncRun(ctx context.Context, result SyncResult) error
}

// SyncResult summarises one bulk replacement.
type SyncResult struct {
	RunID      string `json:"runId"`
	Added      int    `json:"added"`
	Updated    int    `json:"updated"`
	Deleted    int    `json:"deleted"`
	Unchanged  int    `json:"unchanged"`
	DurationMs int64  `json:"durationMs"`
}

// Store serves offence lookups from an immutable in-memory snapshot. Sync
// builds the next snapshot in full and swaps it in, so readers see either
// the old set or the new one.
type Store struct {
	records atomic.Pointer[map[string]Record]
	persist Persister
	syncMu  sync.Mutex
	logger  *slog.Logger
}

// NewStore creates an empty store. persist may be nil for a memory-only store.
func NewStore(persist Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{persist: persist, logger: logger}
	empty := map[string]Record{}
	s.records.Store(&empty)
	return s
}

// Load replaces the snapshot with whatever the persister holds.
func (s *Store) Load(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	records, err := s.persist.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load offence records: %w", err)
	}
	next := make(map[string]Record, len(records))
	for _, r := range records {
		next[r.Code] = r
	}
	s.records.Store(&next)
	s.logger.Info("Offence reference data loaded", "records", len(next))
	return nil
}

// Lookup returns the record for code.
func (s *Store) Lookup(code string) (Record, error) {
	r, ok := (*s.records.Load())[code]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return r, nil
}

// Weighting returns the named weighting for code.
func (s *Store) Weighting(code string, name WeightingName) (float64, error) {
	r, err := s.Lookup(code)
	if err != nil {
		return 0, err
	}
	return r.Weighting(name)
}

// IsViolentOrSexualType reports the violent or sexual classification of code.
func (s *Store) IsViolentOrSexualType(code string) (bool, error) {
	r, err := s.Lookup(code)
	if err != nil {
		return false, err
	}
	return r.Flags[ViolentOrSexualType], nil
}

// Len is the number of records in the current snapshot.
func (s *Store) Len() int {
	return len(*s.records.Load())
}

// Codes lists the current offence codes in ascending order.
func (s *Store) Codes() []string {
	current := *s.records.Load()
	codes := make([]string, 0, len(current))
	for code := range current {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Sync replaces the whole reference set with records. New and changed
// records are upserted, records no longer present are deleted, and the
// in-memory snapshot is swapped only after the persister commits.
func (s *Store) Sync(ctx context.Context, records []Record) (SyncResult, error) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	start := time.Now()
	result := SyncResult{RunID: uuid.NewString()}
	current := *s.records.Load()

	next := make(map[string]Record, len(records))
	for _, r := range records {
		if utf8.RuneCountInString(r.Code) != 5 {
			return result, fmt.Errorf("invalid offence code %q", r.Code)
		}
		next[r.Code] = r.Clone()
	}

	var upserts []Record
	for code, r := range next {
		old, ok := current[code]
		switch {
		case !ok:
			result.Added++
			upserts = append(upserts, r)
		case !old.Equal(r):
			result.Updated++
			upserts = append(upserts, r)
		default:
			result.Unchanged++
		}
	}
	var deletes []string
	for code := range current {
		if _, ok := next[code]; !ok {
			deletes = append(deletes, code)
		}
	}
	result.Deleted = len(deletes)
	sort.Slice(upserts, func(i, j int) bool { return upserts[i].Code < upserts[j].Code })
	sort.Strings(deletes)

	if s.persist != nil && (len(upserts) > 0 || len(deletes) > 0) {
		if err := s.persist.Apply(ctx, upserts, deletes); err != nil {
			return result, fmt.Errorf("failed to persist offence sync: %w", err)
		}
	}
	s.records.Store(&next)

	result.DurationMs = time.Since(start).Milliseconds()
	if rr, ok := s.persist.(RunRecorder); ok {
		if err := rr.RecordSyncRun(ctx, result); err != nil {
			s.logger.Warn("Failed to record offence sync run", "run_id", result.RunID, "error", err)
		}
	}
	s.logger.Info("Offence reference data synced",
		"run_id", result.RunID,
		"added", result.Added,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"unchanged", result.Unchanged)
	return result, nil
}
