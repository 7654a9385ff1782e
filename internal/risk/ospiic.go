package risk

import (
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

type ospIicRule struct {
	description string
	matches     func(sexualCounts) bool
	score       int
}

// ospIicRules is evaluated top down; the first match decides the score.
var ospIicRules = []ospIicRule{
	{"two or more indecent image sanctions", func(c sexualCounts) bool { return c.indecentImage >= 2 }, 11},
	{"one indecent image sanction", func(c sexualCounts) bool { return c.indecentImage == 1 }, 6},
	{"two or more non-contact offences", func(c sexualCounts) bool { return c.nonContact >= 2 }, 4},
	{"one non-contact offence or child contact offence", func(c sexualCounts) bool {
		return c.nonContact == 1 || c.contactChild >= 1
	}, 2},
	{"no indirect contact history", func(sexualCounts) bool { return true }, 1},
}

func validateOSPIIC(req *types.RiskScoreRequest) validation.Errors {
	var errs validation.Errors
	if missing := validation.RequireFields(req, missingMessage, types.FieldGender); missing != nil {
		errs.Add(missing)
		return errs
	}
	return append(errs, sexualHistoryRules(req)...)
}

// matchOSPIIC returns the first rule matching counts.
func matchOSPIIC(counts sexualCounts) ospIicRule {
	for _, rule := range ospIicRules {
		if rule.matches(counts) {
			return rule
		}
	}
	return ospIicRules[len(ospIicRules)-1]
}

func computeOSPIIC(counts sexualCounts) (OSPIICOutput, error) {
	rule := matchOSPIIC(counts)
	score := rule.score
	return OSPIICOutput{
		Score:            &score,
		Band:             bandPtr(ospIicBands.Band(score)),
		ValidationErrors: noErrors(),
	}, nil
}

// OSPIIC is the indecent image and indirect contact sexual reoffending
// predictor.
type OSPIIC struct{}

func (OSPIIC) Name() Predictor { return PredictorOSPIIC }

func (OSPIIC) Produce(req *types.RiskScoreRequest, rc Context) Context {
	out := pipeline[OSPIICOutput]{
		validate: func() validation.Errors { return validateOSPIIC(req) },
		exempt: func() (OSPIICOutput, bool) {
			if sexualPredictorExempt(req) {
				return OSPIICOutput{Band: bandPtr(NotApplicable), ValidationErrors: noErrors()}, true
			}
			return OSPIICOutput{}, false
		},
		compute: func() (OSPIICOutput, error) { return computeOSPIIC(narrowSexualCounts(req)) },
		failed:  func(errs []validation.Error) OSPIICOutput { return OSPIICOutput{ValidationErrors: errs} },
	}.run()
	return rc.WithOSPIIC(out)
}
