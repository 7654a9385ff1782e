package offence

import (
	"errors"
	"fmt"
	"maps"
)

// WeightingName identifies one numeric weighting carried by an offence record.
type WeightingName string

const (
	OGRS3Weighting       WeightingName = "ogrs3Weighting"
	SNSVStaticWeighting  WeightingName = "snsvStaticWeighting"
	SNSVDynamicWeighting WeightingName = "snsvDynamicWeighting"
)

// FlagName identifies one boolean classification on an offence record.
type FlagName string

const ViolentOrSexualType FlagName = "violentOrSexualType"

// ErrNotFound is returned for an offence code with no reference record.
var ErrNotFound = errors.New("offence code not found")

// Weighting is either a value or an error code explaining why the offence
// cannot be weighted without more detail.
type Weighting struct {
	Value     *float64 `json:"value,omitempty"`
	ErrorCode *string  `json:"errorCode,omitempty"`
}

func (w Weighting) equal(o Weighting) bool {
	return ptrEqual(w.Value, o.Value) && ptrEqual(w.ErrorCode, o.ErrorCode)
}

func (w Weighting) clone() Weighting {
	return Weighting{Value: ptrClone(w.Value), ErrorCode: ptrClone(w.ErrorCode)}
}

func ptrClone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Record is the reference data for one offence code.
type Record struct {
	Code       string                      `json:"offenceCode"`
	Weightings map[WeightingName]Weighting `json:"weightings"`
	Flags      map[FlagName]bool           `json:"flags"`
}

// Equal compares two records field by field.
func (r Record) Equal(o Record) bool {
	if r.Code != o.Code || len(r.Weightings) != len(o.Weightings) {
		return false
	}
	for name, w := range r.Weightings {
		ow, ok := o.Weightings[name]
		if !ok || !w.equal(ow) {
			return false
		}
	}
	return maps.Equal(r.Flags, o.Flags)
}

// Clone returns a deep copy of r that shares no maps or pointers with it.
func (r Record) Clone() Record {
	out := Record{Code: r.Code, Flags: maps.Clone(r.Flags)}
	if r.Weightings != nil {
		out.Weightings = make(map[WeightingName]Weighting, len(r.Weightings))
		for name, w := range r.Weightings {
			out.Weightings[name] = w.clone()
		}
	}
	return out
}

// WeightingError reports a weighting that carries an error code rather than
// a value, or is absent from the record.
type WeightingError struct {
	Code      string
	Name      WeightingName
	ErrorCode string
}

func (e *WeightingError) Error() string {
	if e.ErrorCode == "" {
		return fmt.Sprintf("offence code %s has no %s", e.Code, e.Name)
	}
	return fmt.Sprintf("offence code %s has no %s: %s", e.Code, e.Name, e.ErrorCode)
}

// Weighting returns the named weighting value.
func (r Record) Weighting(name WeightingName) (float64, error) {
	w, ok := r.Weightings[name]
	if !ok || w.Value == nil {
		e := &WeightingError{Code: r.Code, Name: name}
		if ok && w.ErrorCode != nil {
			e.ErrorCode = *w.ErrorCode
		}
		return 0, e
	}
	return *w.Value, nil
}

// Key formats an offence group and sub-code as the five character offence
// code, for example group 51 sub 10 becomes "05110".
func Key(group, sub int) string {
	return fmt.Sprintf("%03d%02d", group, sub)
}
