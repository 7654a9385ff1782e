package risk

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
)

const (
	// MinimumAge is the youngest age any predictor accepts.
	MinimumAge = 10

	maxExponent = 709.0
	minExponent = -745.0
)

var (
	ErrExponentOutOfRange = errors.New("logistic exponent out of range")
	ErrCopasDenominator   = errors.New("copas denominator must be positive")
	ErrCopasNumerator     = errors.New("copas sanction count must be positive")
)

// ComputationError is a failure inside a predictor's formula after its
// inputs passed validation. Fields names the request fields it concerns.
type ComputationError struct {
	Message string
	Fields  []types.Field
	Err     error
}

func (e *ComputationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ComputationError) Unwrap() error { return e.Err }

func computationError(err error, msg string, fields ...types.Field) error {
	return &ComputationError{Message: msg, Fields: fields, Err: err}
}

// Logistic returns exp(x)/(1+exp(x)), refusing exponents where exp would
// overflow or underflow.
func Logistic(x float64) (float64, error) {
	if math.IsNaN(x) || x > maxExponent || x < minExponent {
		return 0, fmt.Errorf("%w: %v", ErrExponentOutOfRange, x)
	}
	e := math.Exp(x)
	return e / (1 + e), nil
}

// Percentage floors a probability to a whole percentage in 0..100.
func Percentage(p float64) int {
	pct := decimal.NewFromFloat(p).Mul(decimal.NewFromInt(100)).Floor().IntPart()
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return int(pct)
}

// logisticPercentage is Logistic followed by Percentage.
func logisticPercentage(x float64) (int, error) {
	p, err := Logistic(x)
	if err != nil {
		return 0, err
	}
	return Percentage(p), nil
}

// WholeYears counts complete years elapsed from one date to another,
// truncating any part year. The result is negative when to precedes from.
func WholeYears(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}

// AgeAt returns the whole-year age on the given date, failing when it falls
// below MinimumAge.
func AgeAt(dob, on types.Date, fields ...types.Field) (int, error) {
	age := WholeYears(dob.Time, on.Time)
	if age < MinimumAge {
		return age, computationError(nil, fmt.Sprintf("Age %d is below the minimum of %d", age, MinimumAge), fields...)
	}
	return age, nil
}

// Copas is the sanction-rate term coefficient * ln(sanctions / (10 + years
// in criminal career)).
func Copas(sanctions, ageAtConviction, ageAtFirstSanction int, coefficient float64) (float64, error) {
	denominator := 10 + ageAtConviction - ageAtFirstSanction
	if denominator <= 0 {
		return 0, fmt.Errorf("%w: 10 + %d - %d = %d", ErrCopasDenominator, ageAtConviction, ageAtFirstSanction, denominator)
	}
	if sanctions <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrCopasNumerator, sanctions)
	}
	return coefficient * math.Log(float64(sanctions)/float64(denominator)), nil
}

// Range is one inclusive band of a piecewise table. Max < 0 means unbounded.
type Range[T int | float64] struct {
	Min, Max int
	Value    T
}

// RangeTable is a piecewise lookup keyed on an integer, usually an age or a
// count.
type RangeTable[T int | float64] []Range[T]

// Lookup finds the value whose range contains v.
func (t RangeTable[T]) Lookup(v int) (T, error) {
	for _, r := range t {
		if v >= r.Min && (r.Max < 0 || v <= r.Max) {
			return r.Value, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("no range covers %d", v)
}

// boolScore maps a flag onto 0 or weight.
func boolScore(b bool, weight int) int {
	if b {
		return weight
	}
	return 0
}
