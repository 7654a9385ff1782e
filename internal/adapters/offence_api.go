package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/errors"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/offence"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/resilience"
)

const offenceAPIName = "Offence reference"

// OffenceMapping is one row of the upstream offence classification feed.
type OffenceMapping struct {
	OffenceGroupCode     int                `json:"offenceGroupCode"`
	OffenceSubCode       int                `json:"offenceSubCode"`
	OGRS3Weighting       *offence.Weighting `json:"ogrs3Weighting,omitempty"`
	SNSVStaticWeighting  *offence.Weighting `json:"snsvStaticWeighting,omitempty"`
	SNSVDynamicWeighting *offence.Weighting `json:"snsvDynamicWeighting,omitempty"`
	ViolentOrSexualType  bool               `json:"violentOrSexualType"`
}

// Record converts the mapping into an offence reference record.
func (m OffenceMapping) Record() offence.Record {
	rec := offence.Record{
		Code:       offence.Key(m.OffenceGroupCode, m.OffenceSubCode),
		Weightings: map[offence.WeightingName]offence.Weighting{},
		Flags:      map[offence.FlagName]bool{offence.ViolentOrSexualType: m.ViolentOrSexualType},
	}
	for name, w := range map[offence.WeightingName]*offence.Weighting{
		offence.OGRS3Weighting:       m.OGRS3Weighting,
		offence.SNSVStaticWeighting:  m.SNSVStaticWeighting,
		offence.SNSVDynamicWeighting: m.SNSVDynamicWeighting,
	} {
		if w != nil {
			rec.Weightings[name] = *w
		}
	}
	return rec
}

// OffenceClientConfig configures the upstream client.
type OffenceClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Retry   resilience.RetryConfig
	Breaker resilience.CircuitBreakerConfig
}

// OffenceClient fetches offence mappings from the upstream reference API.
type OffenceClient struct {
	baseURL string
	token   string
	http    *http.Client
	retry   resilience.RetryConfig
	breaker *resilience.CircuitBreaker
}

// NewOffenceClient creates a client with its own circuit breaker.
func NewOffenceClient(cfg OffenceClientConfig) *OffenceClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = resilience.DefaultRetryConfig()
	}
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   5,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
	}
	return &OffenceClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Transport: transport, Timeout: cfg.Timeout},
		retry:   cfg.Retry,
		breaker: resilience.NewCircuitBreaker(cfg.Breaker),
	}
}

// FetchAll returns the full set of offence records from the upstream API.
func (c *OffenceClient) FetchAll(ctx context.Context) ([]offence.Record, error) {
	var mappings []OffenceMapping

	err := c.breaker.Call(func() error {
		resp, err := resilience.RetryHTTP(ctx, c.retry, func() (*http.Response, error) {
			return c.do(ctx, http.MethodGet, c.baseURL+"/offence-mappings")
		})
		if err != nil {
			return apperrors.NewExternalAPIError(offenceAPIName, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return apperrors.NewExternalAPIError(offenceAPIName,
				fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
		}
		if err := json.NewDecoder(resp.Body).Decode(&mappings); err != nil {
			return fmt.Errorf("failed to decode offence mappings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]offence.Record, 0, len(mappings))
	for _, m := range mappings {
		records = append(records, m.Record())
	}
	slog.Debug("Offence mappings fetched", "count", len(records))
	return records, nil
}

// BreakerStats reports the circuit breaker state.
func (c *OffenceClient) BreakerStats() map[string]interface{} {
	return c.breaker.Stats()
}

func (c *OffenceClient) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hmpps-arns-risk-actuarial-api/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("Request failed", "url", url, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	slog.Debug("Request completed", "url", url, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}
