package risk

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

// Outcome classifies how a predictor finished.
type Outcome string

const (
	OutcomeScored        Outcome = "scored"
	OutcomeFailed        Outcome = "failed"
	OutcomeNotApplicable Outcome = "not_applicable"
	OutcomeMissing       Outcome = "missing"
)

// Recorder receives one observation per predictor run.
type Recorder interface {
	RecordPredictor(predictor string, outcome string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordPredictor(string, string, time.Duration) {}

// DefaultProducers lists every predictor in dependency order: each
// predictor appears after everything it reads from the context.
func DefaultProducers(lookup OffenceLookup) []Producer {
	return []Producer{
		NewOGRS3(lookup),
		OVP{},
		OGP{},
		OSPDC{},
		OSPIIC{},
		NewRSR(lookup),
		MST{},
		LDS{},
		NewPNI(),
	}
}

// NewPNI returns the programme needs producer.
func NewPNI() PNI { return PNI{} }

// Service runs the predictors for one request and assembles the response.
type Service struct {
	producers []Producer
	logger    *slog.Logger
	recorder  Recorder
	tracer    trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

func WithRecorder(r Recorder) Option { return func(s *Service) { s.recorder = r } }

func WithProducers(p ...Producer) Option { return func(s *Service) { s.producers = p } }

// NewService creates a service over the default producers.
func NewService(lookup OffenceLookup, opts ...Option) *Service {
	s := &Service{
		producers: DefaultProducers(lookup),
		logger:    slog.Default(),
		recorder:  nopRecorder{},
		tracer:    otel.Tracer("github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/risk"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type loggerKey struct{}

// ContextWithLogger attaches a request-scoped logger that Run uses instead
// of the service logger.
func ContextWithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func (s *Service) loggerFor(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return s.logger
}

// Run threads a fresh context through every producer in order.
func (s *Service) Run(ctx context.Context, req *types.RiskScoreRequest) Context {
	if req == nil {
		req = &types.RiskScoreRequest{}
	}
	logger := s.loggerFor(ctx)
	rc := Context{}
	tally := make(map[Outcome]int, 4)
	start := time.Now()
	for _, p := range s.producers {
		_, span := s.tracer.Start(ctx, "risk."+string(p.Name()))
		began := time.Now()

		rc = p.Produce(req, rc)

		outcome, errs := rc.Outcome(p.Name())
		elapsed := time.Since(began)
		tally[outcome]++
		span.SetAttributes(
			attribute.String("risk.predictor", string(p.Name())),
			attribute.String("risk.outcome", string(outcome)),
			attribute.Int("risk.validation_errors", len(errs)),
		)
		span.End()

		s.recorder.RecordPredictor(string(p.Name()), string(outcome), elapsed)
		logger.DebugContext(ctx, "Predictor scored",
			"predictor", p.Name(),
			"outcome", outcome,
			"validation_errors", len(errs))
	}

	logger.InfoContext(ctx, "Risk scores calculated",
		"scored", tally[OutcomeScored],
		"failed", tally[OutcomeFailed],
		"not_applicable", tally[OutcomeNotApplicable],
		"duration_ms", time.Since(start).Milliseconds())
	return rc
}

// Score runs every predictor and converts the result into the response.
func (s *Service) Score(ctx context.Context, req *types.RiskScoreRequest) RiskScoreResponse {
	ctx, span := s.tracer.Start(ctx, "risk.Score")
	defer span.End()

	return ToResponse(s.Run(ctx, req))
}

// Outcome reports how predictor p finished and its validation errors.
func (c Context) Outcome(p Predictor) (Outcome, []validation.Error) {
	var (
		band   *RiskBand
		errs   []validation.Error
		exists bool
	)
	switch p {
	case PredictorOGRS3:
		if exists = c.OGRS3 != nil; exists {
			band, errs = c.OGRS3.Band, c.OGRS3.ValidationErrors
		}
	case PredictorOVP:
		if exists = c.OVP != nil; exists {
			band, errs = c.OVP.Band, c.OVP.ValidationErrors
		}
	case PredictorOGP:
		if exists = c.OGP != nil; exists {
			band, errs = c.OGP.Band, c.OGP.ValidationErrors
		}
	case PredictorOSPDC:
		if exists = c.OSPDC != nil; exists {
			band, errs = c.OSPDC.Band, c.OSPDC.ValidationErrors
		}
	case PredictorOSPIIC:
		if exists = c.OSPIIC != nil; exists {
			band, errs = c.OSPIIC.Band, c.OSPIIC.ValidationErrors
		}
	case PredictorRSR:
		if exists = c.RSR != nil; exists {
			band, errs = c.RSR.Band, c.RSR.ValidationErrors
		}
	case PredictorMST:
		if exists = c.MST != nil; exists {
			band, errs = c.MST.Band, c.MST.ValidationErrors
		}
	case PredictorLDS:
		if exists = c.LDS != nil; exists {
			band, errs = c.LDS.Band, c.LDS.ValidationErrors
		}
	case PredictorPNI:
		if exists = c.PNI != nil; exists {
			band, errs = c.PNI.Band, c.PNI.ValidationErrors
		}
	}

	switch {
	case !exists:
		return OutcomeMissing, nil
	case len(errs) > 0:
		return OutcomeFailed, errs
	case band != nil && *band == NotApplicable:
		return OutcomeNotApplicable, errs
	}
	return OutcomeScored, errs
}
