package risk

import (
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

const ldsMinAnswered = 3

var ldsSubfields = []types.Field{
	types.FieldWorkRelatedSkills,
	types.FieldProblemsWithReadingWritingNumeracy,
	types.FieldLearningDifficulties,
	types.FieldProfessionalOrVocationalQualifications,
}

// ldsInput keeps the subfields optional: one of the four may be unanswered.
type ldsInput struct {
	workRelatedSkills *types.ProblemLevel
	literacy          *types.ProblemLevel
	reading           bool
	numeracy          bool
	learning          *types.ProblemLevel
	qualifications    *types.QualificationLevel
}

func validateLDS(req *types.RiskScoreRequest) validation.Errors {
	var errs validation.Errors
	missing := validation.MissingFields(req, ldsSubfields...)
	if len(ldsSubfields)-len(missing) < ldsMinAnswered {
		errs.Append(validation.New(validation.NotApplicable,
			"At least 3 of the 4 learning and literacy questions must be answered", missing...))
		return errs
	}

	if req.ProblemsWithReadingWritingNumeracy != nil && *req.ProblemsWithReadingWritingNumeracy == types.NoProblems {
		flagged := []types.Field{types.FieldProblemsWithReadingWritingNumeracy}
		if deref(req.HasProblemsWithReading) {
			flagged = append(flagged, types.FieldHasProblemsWithReading)
		}
		if deref(req.HasProblemsWithNumeracy) {
			flagged = append(flagged, types.FieldHasProblemsWithNumeracy)
		}
		if len(flagged) > 1 {
			errs.Append(validation.New(validation.InconsistentInput,
				"Reading or numeracy problems recorded but no literacy problems selected", flagged...))
		}
	}
	return errs
}

func narrowLDS(req *types.RiskScoreRequest) ldsInput {
	return ldsInput{
		workRelatedSkills: req.WorkRelatedSkills,
		literacy:          req.ProblemsWithReadingWritingNumeracy,
		reading:           deref(req.HasProblemsWithReading),
		numeracy:          deref(req.HasProblemsWithNumeracy),
		learning:          req.LearningDifficulties,
		qualifications:    req.ProfessionalOrVocationalQualifications,
	}
}

// literacyScore is the higher of the literacy level and the reading and
// numeracy flags: both flags score as significant, one as some.
func literacyScore(in ldsInput) int {
	flags := 0
	if in.reading {
		flags++
	}
	if in.numeracy {
		flags++
	}
	return max(level(in.literacy), flags)
}

func computeLDS(in ldsInput) (LDSOutput, error) {
	score := level(in.workRelatedSkills) + literacyScore(in) + level(in.learning)
	if in.qualifications != nil && *in.qualifications == types.NoQualifications {
		score++
	}
	return LDSOutput{
		Score:            &score,
		Band:             bandPtr(ldsBands.Band(score)),
		ValidationErrors: noErrors(),
	}, nil
}

// LDS is the learning and literacy screening.
type LDS struct{}

func (LDS) Name() Predictor { return PredictorLDS }

func (LDS) Produce(req *types.RiskScoreRequest, rc Context) Context {
	out := pipeline[LDSOutput]{
		validate: func() validation.Errors { return validateLDS(req) },
		compute:  func() (LDSOutput, error) { return computeLDS(narrowLDS(req)) },
		failed:   func(errs []validation.Error) LDSOutput { return LDSOutput{ValidationErrors: errs} },
	}.run()
	return rc.WithLDS(out)
}
