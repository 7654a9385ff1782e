package offence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	records []Record
	err     error
}

func (f stubFetcher) FetchAll(context.Context) ([]Record, error) {
	return f.records, f.err
}

func TestRefresher_Refresh(t *testing.T) {
	store := NewStore(nil, nil)
	r, err := NewRefresher(store, stubFetcher{records: []Record{record("00100", 0.1, false)}}, "", nil)
	require.NoError(t, err)

	result, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, store.Len())
}

func TestRefresher_FetchFailureKeepsStore(t *testing.T) {
	store := NewStore(nil, nil)
	_, err := store.Sync(context.Background(), []Record{record("00100", 0.1, false)})
	require.NoError(t, err)

	r, err := NewRefresher(store, stubFetcher{err: errors.New("upstream down")}, "@hourly", nil)
	require.NoError(t, err)

	_, err = r.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestRefresher_InvalidSchedule(t *testing.T) {
	_, err := NewRefresher(NewStore(nil, nil), stubFetcher{}, "not a schedule", nil)
	assert.Error(t, err)
}

func TestRefresher_StartStop(t *testing.T) {
	r, err := NewRefresher(NewStore(nil, nil), stubFetcher{}, DefaultRefreshSchedule, nil)
	require.NoError(t, err)

	r.Start()
	r.Stop(context.Background())
}

func TestRefresher_OnRefresh(t *testing.T) {
	var seen []error
	r, err := NewRefresher(NewStore(nil, nil), stubFetcher{err: errors.New("upstream down")}, "", nil)
	require.NoError(t, err)
	r.OnRefresh(func(_ SyncResult, err error) { seen = append(seen, err) })

	_, _ = r.Refresh(context.Background())
	r.fetcher = stubFetcher{records: []Record{record("00100", 0.1, false)}}
	_, _ = r.Refresh(context.Background())

	require.Len(t, seen, 2)
	assert.Error(t, seen[0])
	assert.NoError(t, seen[1])
}
