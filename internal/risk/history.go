package risk

import (
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

var sexualCountFields = []types.Field{
	types.FieldTotalContactAdultSexualSanctions,
	types.FieldTotalContactChildSexualSanctions,
	types.FieldTotalIndecentImageSanctions,
	types.FieldTotalNonContactSexualOffences,
}

// criminalHistoryRules range-checks sanction counts and the ages derived from
// them. Each check only runs once its inputs are present.
func criminalHistoryRules(req *types.RiskScoreRequest) validation.Errors {
	var errs validation.Errors

	if req.TotalNumberOfSanctions != nil && *req.TotalNumberOfSanctions < 1 {
		errs.Append(validation.New(validation.BelowMinValue,
			"Total number of sanctions must be at least 1", types.FieldTotalNumberOfSanctions))
	}
	if req.AgeAtFirstSanction != nil && *req.AgeAtFirstSanction < MinimumAge {
		errs.Append(validation.New(validation.BelowMinValue,
			"Age at first sanction must be at least 10", types.FieldAgeAtFirstSanction))
	}
	if req.DateOfBirth != nil && req.DateOfCurrentConviction != nil {
		age := WholeYears(req.DateOfBirth.Time, req.DateOfCurrentConviction.Time)
		switch {
		case age < MinimumAge:
			errs.Append(validation.New(validation.BelowMinValue,
				"Age at current conviction must be at least 10",
				types.FieldDateOfBirth, types.FieldDateOfCurrentConviction))
		case req.AgeAtFirstSanction != nil && *req.AgeAtFirstSanction > age:
			errs.Append(validation.New(validation.InconsistentInput,
				"Age at first sanction cannot be greater than age at current conviction",
				types.FieldAgeAtFirstSanction, types.FieldDateOfBirth, types.FieldDateOfCurrentConviction))
		}
	}
	return errs
}

func violentHistoryRules(req *types.RiskScoreRequest) validation.Errors {
	var errs validation.Errors
	if req.TotalNumberOfViolentSanctions == nil {
		return errs
	}
	violent := *req.TotalNumberOfViolentSanctions
	switch {
	case violent < 0:
		errs.Append(validation.New(validation.BelowMinValue,
			"Total number of violent sanctions cannot be negative", types.FieldTotalNumberOfViolentSanctions))
	case req.TotalNumberOfSanctions != nil && violent > *req.TotalNumberOfSanctions:
		errs.Append(validation.New(validation.InconsistentInput,
			"Violent sanctions cannot exceed total sanctions",
			types.FieldTotalNumberOfViolentSanctions, types.FieldTotalNumberOfSanctions))
	}
	return errs
}

// sexualHistoryRules applies to male subjects only. The history flag gates
// which of the four sanction counts may or must be supplied.
func sexualHistoryRules(req *types.RiskScoreRequest) validation.Errors {
	var errs validation.Errors
	if !req.IsMale() {
		return errs
	}
	if req.HasEverCommittedSexualOffence == nil {
		errs.Append(validation.New(validation.MissingInput,
			"Sexual offence history is required for male subjects", types.FieldHasEverCommittedSexualOffence))
		return errs
	}

	if !*req.HasEverCommittedSexualOffence {
		if populated := validation.PresentFields(req, sexualCountFields...); len(populated) > 0 {
			errs.Append(validation.New(validation.InconsistentInput,
				"Sexual offence counts supplied but no sexual offence history recorded", populated...))
		}
		return errs
	}

	required := append(append([]types.Field{}, sexualCountFields...), types.FieldIsCurrentOffenceSexuallyMotivated)
	missing := validation.MissingFields(req, required...)
	errs.Add(validation.Missing(missing, "Sexual offence history recorded but sexual offence details missing"))

	var negative []types.Field
	allZero := true
	counted := 0
	for _, f := range sexualCountFields {
		v, ok := sexualCount(req, f)
		if !ok {
			continue
		}
		counted++
		if v < 0 {
			negative = append(negative, f)
		}
		if v != 0 {
			allZero = false
		}
	}
	if len(negative) > 0 {
		errs.Append(validation.New(validation.BelowMinValue, "Sexual offence counts cannot be negative", negative...))
	}
	if counted == len(sexualCountFields) && allZero {
		errs.Append(validation.New(validation.InconsistentInput,
			"Sexual offence history recorded but all sexual offence counts are zero", sexualCountFields...))
	}
	return errs
}

func sexualCount(req *types.RiskScoreRequest, f types.Field) (int, bool) {
	var p *int
	switch f {
	case types.FieldTotalContactAdultSexualSanctions:
		p = req.TotalContactAdultSexualSanctions
	case types.FieldTotalContactChildSexualSanctions:
		p = req.TotalContactChildSexualSanctions
	case types.FieldTotalIndecentImageSanctions:
		p = req.TotalIndecentImageSanctions
	case types.FieldTotalNonContactSexualOffences:
		p = req.TotalNonContactSexualOffences
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// hasSexualHistory is true only for a male subject with the history flag set.
func hasSexualHistory(req *types.RiskScoreRequest) bool {
	return req.IsMale() && req.HasEverCommittedSexualOffence != nil && *req.HasEverCommittedSexualOffence
}

// domesticAbusePerpetrator derives the perpetrator flag. known is false when
// abuse is evidenced but neither victim type has been answered.
func domesticAbusePerpetrator(req *types.RiskScoreRequest) (perpetrator, known bool) {
	if req.EvidenceOfDomesticAbuse == nil {
		return false, false
	}
	if !*req.EvidenceOfDomesticAbuse {
		return false, true
	}
	if req.DomesticAbuseAgainstPartner == nil && req.DomesticAbuseAgainstFamily == nil {
		return false, false
	}
	return deref(req.DomesticAbuseAgainstPartner) || deref(req.DomesticAbuseAgainstFamily), true
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func level(p *types.ProblemLevel) int {
	if p == nil {
		return 0
	}
	return p.Score()
}
