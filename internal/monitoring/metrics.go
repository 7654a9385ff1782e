package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const maxResponseSamples = 1000

// predictorCounters tracks runs of one predictor by outcome.
type predictorCounters struct {
	Outcomes      map[string]int64
	TotalDuration time.Duration
}

// Metrics holds application metrics
type Metrics struct {
	RequestCount int64
	ErrorCount   int64
	ScoreCount   int64
	StartTime    time.Time

	// Response time samples for percentiles
	ResponseTimes      []time.Duration
	ResponseTimesMutex sync.RWMutex

	RequestCountByStatus map[int]int64
	StatusMutex          sync.RWMutex

	Predictors      map[string]*predictorCounters
	PredictorsMutex sync.RWMutex

	// Offence reference-data sync
	SyncRuns     int64
	SyncFailures int64
	lastSync     atomic.Pointer[SyncSummary]

	// Rate limiting
	RateLimitBlocks        int64
	RateLimitRedisErrors   int64
	RateLimitFallbackCount int64

	ExternalAPIRequests   map[string]int64
	ExternalAPIErrorCount map[string]int64
	ExternalAPIMutex      sync.RWMutex
}

// SyncSummary is the outcome of the most recent successful sync.
type SyncSummary struct {
	RunID     string    `json:"run_id"`
	Added     int       `json:"added"`
	Updated   int       `json:"updated"`
	Deleted   int       `json:"deleted"`
	Unchanged int       `json:"unchanged"`
	At        time.Time `json:"at"`
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:             time.Now(),
		ResponseTimes:         make([]time.Duration, 0, maxResponseSamples),
		RequestCountByStatus:  make(map[int]int64),
		Predictors:            make(map[string]*predictorCounters),
		ExternalAPIRequests:   make(map[string]int64),
		ExternalAPIErrorCount: make(map[string]int64),
	}
}

// IncrementRequest increments the request count
func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

// IncrementError increments the error count
func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

// IncrementScore counts one completed scoring request.
func (m *Metrics) IncrementScore() {
	atomic.AddInt64(&m.ScoreCount, 1)
}

// RecordResponseTime keeps the last maxResponseSamples durations.
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.ResponseTimesMutex.Lock()
	m.ResponseTimes = append(m.ResponseTimes, duration)
	if len(m.ResponseTimes) > maxResponseSamples {
		m.ResponseTimes = m.ResponseTimes[1:]
	}
	m.ResponseTimesMutex.Unlock()
}

// RecordRequestByStatus records request count by HTTP status code
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.StatusMutex.Lock()
	defer m.StatusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// RecordPredictor counts one predictor run by outcome.
func (m *Metrics) RecordPredictor(predictor, outcome string, duration time.Duration) {
	m.PredictorsMutex.Lock()
	defer m.PredictorsMutex.Unlock()

	pc, ok := m.Predictors[predictor]
	if !ok {
		pc = &predictorCounters{Outcomes: make(map[string]int64)}
		m.Predictors[predictor] = pc
	}
	pc.Outcomes[outcome]++
	pc.TotalDuration += duration
}

// RecordSync records a successful offence sync.
func (m *Metrics) RecordSync(s SyncSummary) {
	atomic.AddInt64(&m.SyncRuns, 1)
	m.lastSync.Store(&s)
}

// IncrementSyncFailure counts a sync that fetched or persisted nothing.
func (m *Metrics) IncrementSyncFailure() {
	atomic.AddInt64(&m.SyncFailures, 1)
}

// IncrementRateLimitBlock counts a request rejected with 429.
func (m *Metrics) IncrementRateLimitBlock() {
	atomic.AddInt64(&m.RateLimitBlocks, 1)
}

// IncrementRateLimitRedisError increments Redis error count for rate limiting
func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrors, 1)
}

// IncrementRateLimitFallback increments fallback rate limiter usage count
func (m *Metrics) IncrementRateLimitFallback() {
	atomic.AddInt64(&m.RateLimitFallbackCount, 1)
}

// RecordExternalAPIRequest records an external API request
func (m *Metrics) RecordExternalAPIRequest(apiName string, success bool) {
	m.ExternalAPIMutex.Lock()
	defer m.ExternalAPIMutex.Unlock()

	m.ExternalAPIRequests[apiName]++
	if !success {
		m.ExternalAPIErrorCount[apiName]++
	}
}

// GetPercentileResponseTime calculates percentile response time
func (m *Metrics) GetPercentileResponseTime(percentile float64) time.Duration {
	m.ResponseTimesMutex.RLock()
	times := make([]time.Duration, len(m.ResponseTimes))
	copy(times, m.ResponseTimes)
	m.ResponseTimesMutex.RUnlock()

	if len(times) == 0 {
		return 0
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	index := int(float64(len(times)-1) * percentile / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}
	return times[index]
}

// GetStatusCodeDistribution returns request count by status code
func (m *Metrics) GetStatusCodeDistribution() map[int]int64 {
	m.StatusMutex.RLock()
	defer m.StatusMutex.RUnlock()

	distribution := make(map[int]int64, len(m.RequestCountByStatus))
	for code, count := range m.RequestCountByStatus {
		distribution[code] = count
	}
	return distribution
}

// GetPredictorStats returns per-predictor outcome counts and mean duration.
func (m *Metrics) GetPredictorStats() map[string]any {
	m.PredictorsMutex.RLock()
	defer m.PredictorsMutex.RUnlock()

	stats := make(map[string]any, len(m.Predictors))
	for name, pc := range m.Predictors {
		var runs int64
		outcomes := make(map[string]int64, len(pc.Outcomes))
		for k, v := range pc.Outcomes {
			outcomes[k] = v
			runs += v
		}
		mean := float64(0)
		if runs > 0 {
			mean = float64(pc.TotalDuration.Microseconds()) / float64(runs)
		}
		stats[name] = map[string]any{
			"runs":             runs,
			"outcomes":         outcomes,
			"mean_duration_us": mean,
		}
	}
	return stats
}

// GetExternalAPIStats returns external API statistics
func (m *Metrics) GetExternalAPIStats() map[string]any {
	m.ExternalAPIMutex.RLock()
	defer m.ExternalAPIMutex.RUnlock()

	stats := make(map[string]any, len(m.ExternalAPIRequests))
	for api, requests := range m.ExternalAPIRequests {
		errors := m.ExternalAPIErrorCount[api]
		stats[api] = map[string]any{
			"requests":   requests,
			"errors":     errors,
			"error_rate": float64(errors) / float64(requests) * 100,
		}
	}
	return stats
}

// GetStats returns current metrics statistics
func (m *Metrics) GetStats() map[string]any {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	stats := map[string]any{
		"uptime_seconds":     time.Since(m.StartTime).Seconds(),
		"start_time":         m.StartTime.Format(time.RFC3339),
		"total_requests":     requests,
		"error_count":        errors,
		"error_rate_percent": errorRate,
		"scores_calculated":  atomic.LoadInt64(&m.ScoreCount),

		"p50_response_time_ms":     float64(m.GetPercentileResponseTime(50)) / 1e6,
		"p95_response_time_ms":     float64(m.GetPercentileResponseTime(95)) / 1e6,
		"p99_response_time_ms":     float64(m.GetPercentileResponseTime(99)) / 1e6,
		"status_code_distribution": m.GetStatusCodeDistribution(),
		"predictors":               m.GetPredictorStats(),
		"external_api_stats":       m.GetExternalAPIStats(),

		"offence_sync_runs":     atomic.LoadInt64(&m.SyncRuns),
		"offence_sync_failures": atomic.LoadInt64(&m.SyncFailures),

		"rate_limit": map[string]any{
			"blocks":         atomic.LoadInt64(&m.RateLimitBlocks),
			"redis_errors":   atomic.LoadInt64(&m.RateLimitRedisErrors),
			"fallback_count": atomic.LoadInt64(&m.RateLimitFallbackCount),
		},
	}
	if last := m.lastSync.Load(); last != nil {
		stats["offence_last_sync"] = *last
	}
	return stats
}
