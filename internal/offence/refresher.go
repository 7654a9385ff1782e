package offence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRefreshSchedule runs the refresh nightly at 02:00.
const DefaultRefreshSchedule = "0 2 * * *"

// Fetcher returns the complete upstream reference set.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]Record, error)
}

// Refresher keeps a Store in step with an upstream Fetcher on a cron schedule.
type Refresher struct {
	store   *Store
	fetcher Fetcher
	cron    *cron.Cron
	timeout time.Duration
	logger  *slog.Logger
	onDone  func(SyncResult, error)
}

// NewRefresher schedules refreshes with a standard five field cron spec.
func NewRefresher(store *Store, fetcher Fetcher, schedule string, logger *slog.Logger) (*Refresher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	r := &Refresher{
		store:   store,
		fetcher: fetcher,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: 5 * time.Minute,
		logger:  logger,
	}
	if _, err := r.cron.AddFunc(schedule, r.scheduled); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return r, nil
}

// OnRefresh registers fn to observe every refresh, scheduled or manual.
func (r *Refresher) OnRefresh(fn func(SyncResult, error)) {
	r.onDone = fn
}

// Refresh fetches the upstream set and syncs the store with it.
func (r *Refresher) Refresh(ctx context.Context) (result SyncResult, err error) {
	if r.onDone != nil {
		defer func() { r.onDone(result, err) }()
	}

	records, err := r.fetcher.FetchAll(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("failed to fetch offence records: %w", err)
	}
	return r.store.Sync(ctx, records)
}

func (r *Refresher) scheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if _, err := r.Refresh(ctx); err != nil {
		r.logger.Error("Scheduled offence refresh failed", "error", err)
	}
}

// Start begins running the schedule in the background.
func (r *Refresher) Start() {
	r.cron.Start()
	r.logger.Info("Offence refresh scheduled", "entries", len(r.cron.Entries()))
}

// Stop halts the schedule and waits for a running refresh to finish or ctx
// to expire.
func (r *Refresher) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
