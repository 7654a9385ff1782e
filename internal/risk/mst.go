package risk

import (
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

const (
	mstMinAge       = 18
	mstMaxAge       = 25
	mstFlagMinScore = 10
)

var mstQuestions = []types.Field{
	types.FieldPeerGroupInfluences,
	types.FieldAttitudesPeerPressure,
	types.FieldAttitudesStableBehaviour,
	types.FieldDifficultiesCoping,
	types.FieldAttitudesTowardsSelf,
	types.FieldImpulsivityProblems,
	types.FieldTemperControl,
	types.FieldProblemSolvingSkills,
	types.FieldAwarenessOfConsequences,
}

// mstApplicable is true for men aged 18 to 25 on the assessment date. The
// caller must have checked gender, date of birth and assessment date exist.
func mstApplicable(req *types.RiskScoreRequest) bool {
	if !req.IsMale() {
		return false
	}
	age := WholeYears(req.DateOfBirth.Time, req.AssessmentDate.Time)
	return age >= mstMinAge && age <= mstMaxAge
}

func validateMST(req *types.RiskScoreRequest) validation.Errors {
	var errs validation.Errors
	errs.Add(validation.RequireFields(req, missingMessage,
		types.FieldGender, types.FieldDateOfBirth, types.FieldAssessmentDate))
	if !errs.Empty() || !mstApplicable(req) {
		return errs
	}
	errs.Add(validation.RequireFields(req, missingMessage, mstQuestions...))
	return errs
}

func narrowMST(req *types.RiskScoreRequest) []types.ProblemLevel {
	return []types.ProblemLevel{
		*req.PeerGroupInfluences,
		*req.AttitudesPeerPressure,
		*req.AttitudesStableBehaviour,
		*req.DifficultiesCoping,
		*req.AttitudesTowardsSelf,
		*req.ImpulsivityProblems,
		*req.TemperControl,
		*req.ProblemSolvingSkills,
		*req.AwarenessOfConsequences,
	}
}

func computeMST(answers []types.ProblemLevel) (MSTOutput, error) {
	score := 0
	for _, a := range answers {
		score += a.Score()
	}
	flag := score >= mstFlagMinScore
	return MSTOutput{
		Score:            &score,
		MaturityFlag:     &flag,
		Band:             bandPtr(mstBands.Band(score)),
		ValidationErrors: noErrors(),
	}, nil
}

// MST is the maturity screening for young adult men.
type MST struct{}

func (MST) Name() Predictor { return PredictorMST }

func (MST) Produce(req *types.RiskScoreRequest, rc Context) Context {
	out := pipeline[MSTOutput]{
		validate: func() validation.Errors { return validateMST(req) },
		exempt: func() (MSTOutput, bool) {
			if !mstApplicable(req) {
				return MSTOutput{Band: bandPtr(NotApplicable), ValidationErrors: noErrors()}, true
			}
			return MSTOutput{}, false
		},
		compute: func() (MSTOutput, error) { return computeMST(narrowMST(req)) },
		failed:  func(errs []validation.Error) MSTOutput { return MSTOutput{ValidationErrors: errs} },
	}.run()
	return rc.WithMST(out)
}
