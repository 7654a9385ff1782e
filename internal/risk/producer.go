package risk

import (
	"errors"
	"fmt"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/offence"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

const missingMessage = "Mandatory input field(s) missing"

// Producer scores one predictor: it reads the request and any upstream
// slots of rc and returns rc with its own slot filled. Produce never panics
// and always fills its slot.
type Producer interface {
	Name() Predictor
	Produce(req *types.RiskScoreRequest, rc Context) Context
}

// OffenceLookup resolves offence reference data. A miss is a computation
// error, not a validation error.
type OffenceLookup interface {
	Weighting(code string, name offence.WeightingName) (float64, error)
	IsViolentOrSexualType(code string) (bool, error)
}

// pipeline is the validate, exempt, compute sequence shared by every
// predictor.
type pipeline[Out any] struct {
	validate func() validation.Errors
	// exempt returns a not-applicable output when the subject is outside the
	// predictor's population.
	exempt  func() (Out, bool)
	compute func() (Out, error)
	failed  func([]validation.Error) Out
}

func (p pipeline[Out]) run() (out Out) {
	defer func() {
		if r := recover(); r != nil {
			out = p.failed([]validation.Error{{
				Type:    validation.UnexpectedError,
				Message: fmt.Sprintf("unexpected error: %v", r),
			}})
		}
	}()

	if p.validate != nil {
		if errs := p.validate(); !errs.Empty() {
			return p.failed(errs.List())
		}
	}
	if p.exempt != nil {
		if o, ok := p.exempt(); ok {
			return o
		}
	}
	o, err := p.compute()
	if err != nil {
		return p.failed([]validation.Error{fromComputation(err)})
	}
	return o
}

func fromComputation(err error) validation.Error {
	e := validation.Error{Type: validation.NoMatchingInput, Message: err.Error()}
	var ce *ComputationError
	if errors.As(err, &ce) {
		e.Fields = validation.Names(ce.Fields...)
	}
	return e
}

func noErrors() []validation.Error { return []validation.Error{} }

func upstreamMissing(msg string, outputField string) validation.Error {
	return validation.Error{Type: validation.MissingInput, Message: msg, Fields: []string{outputField}}
}

func offenceWeighting(l OffenceLookup, code string, name offence.WeightingName) (float64, error) {
	w, err := l.Weighting(code, name)
	if err != nil {
		return 0, computationError(err, "Offence code lookup failed", types.FieldCurrentOffenceCode)
	}
	return w, nil
}

func violentOrSexualType(l OffenceLookup, code string) (bool, error) {
	v, err := l.IsViolentOrSexualType(code)
	if err != nil {
		return false, computationError(err, "Offence code lookup failed", types.FieldCurrentOffenceCode)
	}
	return v, nil
}
