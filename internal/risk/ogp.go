package risk

import (
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

const (
	ogpOneYearIntercept = -3.29
	ogpOneYearOGRS3     = 0.0325
	ogpOneYearNeeds     = 0.118
	ogpTwoYearIntercept = -2.61
	ogpTwoYearOGRS3     = 0.0341
	ogpTwoYearNeeds     = 0.127

	upstreamOGRS3TwoYear = "ogrs3TwoYear"
)

var ogpRequired = []types.Field{
	types.FieldSuitabilityOfAccommodation,
	types.FieldIsUnemployed,
	types.FieldCurrentDrugMisuse,
	types.FieldProblemSolvingSkills,
	types.FieldAwarenessOfConsequences,
	types.FieldProCriminalAttitudes,
	types.FieldEasilyInfluencedByCriminalAssociates,
}

type ogpInput struct {
	ogrs3TwoYear         int
	accommodation        types.ProblemLevel
	unemployed           bool
	drugMisuse           types.ProblemLevel
	problemSolving       types.ProblemLevel
	awareness            types.ProblemLevel
	proCriminalAttitudes types.ProblemLevel
	criminalAssociates   types.ProblemLevel
}

func validateOGP(req *types.RiskScoreRequest, rc Context) validation.Errors {
	var errs validation.Errors
	errs.Add(validation.RequireFields(req, missingMessage, ogpRequired...))
	if rc.OGRS3 == nil || rc.OGRS3.TwoYear == nil {
		errs.Append(upstreamMissing("General reoffending two year score is required", upstreamOGRS3TwoYear))
	}
	return errs
}

func narrowOGP(req *types.RiskScoreRequest, rc Context) ogpInput {
	return ogpInput{
		ogrs3TwoYear:         *rc.OGRS3.TwoYear,
		accommodation:        *req.SuitabilityOfAccommodation,
		unemployed:           *req.IsUnemployed,
		drugMisuse:           *req.CurrentDrugMisuse,
		problemSolving:       *req.ProblemSolvingSkills,
		awareness:            *req.AwarenessOfConsequences,
		proCriminalAttitudes: *req.ProCriminalAttitudes,
		criminalAssociates:   *req.EasilyInfluencedByCriminalAssociates,
	}
}

// ogpNeeds scores the dynamic needs on a 0..20 scale.
func ogpNeeds(in ogpInput) int {
	return in.accommodation.Score()*2 +
		boolScore(in.unemployed, 2) +
		in.drugMisuse.Score()*2 +
		in.problemSolving.Score() +
		in.awareness.Score() +
		in.proCriminalAttitudes.Score()*2 +
		in.criminalAssociates.Score()
}

func computeOGP(in ogpInput) (OGPOutput, error) {
	needs := ogpNeeds(in)
	ogrs3 := float64(in.ogrs3TwoYear)

	oneYear, err := logisticPercentage(ogpOneYearIntercept + ogpOneYearOGRS3*ogrs3 + ogpOneYearNeeds*float64(needs))
	if err != nil {
		return OGPOutput{}, err
	}
	twoYear, err := logisticPercentage(ogpTwoYearIntercept + ogpTwoYearOGRS3*ogrs3 + ogpTwoYearNeeds*float64(needs))
	if err != nil {
		return OGPOutput{}, err
	}

	return OGPOutput{
		NeedsScore:       &needs,
		OneYear:          &oneYear,
		TwoYear:          &twoYear,
		Band:             bandPtr(ogpBands.Band(twoYear)),
		ValidationErrors: noErrors(),
	}, nil
}

// OGP is the general (non-violent) needs predictor. It reads the OGRS3
// two-year score from the context and never recomputes it.
type OGP struct{}

func (OGP) Name() Predictor { return PredictorOGP }

func (OGP) Produce(req *types.RiskScoreRequest, rc Context) Context {
	out := pipeline[OGPOutput]{
		validate: func() validation.Errors { return validateOGP(req, rc) },
		compute:  func() (OGPOutput, error) { return computeOGP(narrowOGP(req, rc)) },
		failed:   func(errs []validation.Error) OGPOutput { return OGPOutput{ValidationErrors: errs} },
	}.run()
	return rc.WithOGP(out)
}
