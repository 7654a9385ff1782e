package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
)

// ErrorType is the closed set of validation error kinds exposed to API consumers.
type ErrorType string

const (
	MissingInput      ErrorType = "MISSING_INPUT"
	BelowMinValue     ErrorType = "BELOW_MIN_VALUE"
	AboveMaxValue     ErrorType = "ABOVE_MAX_VALUE"
	InvalidFormat     ErrorType = "INVALID_FORMAT"
	InconsistentInput ErrorType = "INCONSISTENT_INPUT"
	NotApplicable     ErrorType = "NOT_APPLICABLE"
	NoMatchingInput   ErrorType = "NO_MATCHING_INPUT"
	UnexpectedError   ErrorType = "UNEXPECTED_ERROR"
)

// OffenceCodeLength is the fixed width of a current offence code.
const OffenceCodeLength = 5

// Error is one failed validation rule. Fields carries the request field
// names involved, in the order the rule checks them.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Fields  []string  `json:"fields"`
}

func (e Error) Error() string {
	if len(e.Fields) == 0 {
		return string(e.Type) + ": " + e.Message
	}
	return string(e.Type) + ": " + e.Message + " [" + strings.Join(e.Fields, ", ") + "]"
}

// New builds an Error over the given fields.
func New(t ErrorType, msg string, fields ...types.Field) Error {
	return Error{Type: t, Message: msg, Fields: Names(fields...)}
}

// Names converts field constants into their wire names.
func Names(fields ...types.Field) []string {
	if len(fields) == 0 {
		return nil
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

// MissingFields returns the subset of fields that are absent on req, in the
// order given.
func MissingFields(req *types.RiskScoreRequest, fields ...types.Field) []types.Field {
	var missing []types.Field
	for _, f := range fields {
		if !types.Present(req, f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// PresentFields returns the subset of fields that are set on req.
func PresentFields(req *types.RiskScoreRequest, fields ...types.Field) []types.Field {
	var present []types.Field
	for _, f := range fields {
		if types.Present(req, f) {
			present = append(present, f)
		}
	}
	return present
}

// Missing batches every absent field into one MISSING_INPUT error. It returns
// nil when nothing is missing.
func Missing(missing []types.Field, msg string) *Error {
	if len(missing) == 0 {
		return nil
	}
	e := New(MissingInput, msg, missing...)
	return &e
}

// RequireFields is MissingFields followed by Missing.
func RequireFields(req *types.RiskScoreRequest, msg string, fields ...types.Field) *Error {
	return Missing(MissingFields(req, fields...), msg)
}

// CheckOffenceCode rejects a present offence code that is not exactly five
// characters. Absence is reported by the required-field rule.
func CheckOffenceCode(req *types.RiskScoreRequest) *Error {
	if req == nil || req.CurrentOffenceCode == nil {
		return nil
	}
	if utf8.RuneCountInString(*req.CurrentOffenceCode) != OffenceCodeLength {
		e := New(InvalidFormat, "Offence code must be 5 characters", types.FieldCurrentOffenceCode)
		return &e
	}
	return nil
}

// Errors accumulates validation errors in rule order.
type Errors []Error

// Add appends e unless it is nil.
func (es *Errors) Add(e *Error) {
	if e != nil {
		*es = append(*es, *e)
	}
}

// Append adds a non-pointer error.
func (es *Errors) Append(e Error) {
	*es = append(*es, e)
}

// List returns the collected errors, never nil.
func (es Errors) List() []Error {
	if es == nil {
		return []Error{}
	}
	return es
}

// Empty reports whether no rule failed.
func (es Errors) Empty() bool {
	return len(es) == 0
}
