package risk

import (
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

const (
	ospDcIntercept   = -4.41
	ospDcCoefficient = 0.53
)

var (
	ospDcAgePoints = RangeTable[int]{
		{Min: 10, Max: 24, Value: 2},
		{Min: 25, Max: 34, Value: 1},
		{Min: 35, Max: -1, Value: 0},
	}
	ospDcContactPoints = RangeTable[int]{
		{Min: 0, Max: 1, Value: 0},
		{Min: 2, Max: 2, Value: 1},
		{Min: 3, Max: 4, Value: 2},
		{Min: 5, Max: -1, Value: 3},
	}
)

type sexualCounts struct {
	contactAdult  int
	contactChild  int
	indecentImage int
	nonContact    int
}

func (c sexualCounts) total() int {
	return c.contactAdult + c.contactChild + c.indecentImage + c.nonContact
}

func narrowSexualCounts(req *types.RiskScoreRequest) sexualCounts {
	return sexualCounts{
		contactAdult:  *req.TotalContactAdultSexualSanctions,
		contactChild:  *req.TotalContactChildSexualSanctions,
		indecentImage: *req.TotalIndecentImageSanctions,
		nonContact:    *req.TotalNonContactSexualOffences,
	}
}

type ospDcInput struct {
	dateOfBirth           types.Date
	dateAtStartOfFollowup types.Date
	totalSanctions        int
	counts                sexualCounts
	strangerVictim        bool
}

// sexualPredictorExempt is true for subjects the sexual predictors do not
// cover: women, and men with no sexual offence history.
func sexualPredictorExempt(req *types.RiskScoreRequest) bool {
	return !hasSexualHistory(req)
}

func validateOSPDC(req *types.RiskScoreRequest) validation.Errors {
	var errs validation.Errors
	if missing := validation.RequireFields(req, missingMessage, types.FieldGender); missing != nil {
		errs.Add(missing)
		return errs
	}
	if !req.IsMale() {
		return errs
	}
	errs.Add(validation.RequireFields(req, missingMessage,
		types.FieldDateOfBirth, types.FieldDateAtStartOfFollowup, types.FieldTotalNumberOfSanctions))
	if req.TotalNumberOfSanctions != nil && *req.TotalNumberOfSanctions < 1 {
		errs.Append(validation.New(validation.BelowMinValue,
			"Total number of sanctions must be at least 1", types.FieldTotalNumberOfSanctions))
	}
	errs = append(errs, sexualHistoryRules(req)...)
	if hasSexualHistory(req) {
		errs.Add(validation.RequireFields(req, "Stranger victim is required when sexual offence history is recorded",
			types.FieldIsCurrentOffenceAgainstVictimStranger))
	}
	return errs
}

func narrowOSPDC(req *types.RiskScoreRequest) ospDcInput {
	return ospDcInput{
		dateOfBirth:           *req.DateOfBirth,
		dateAtStartOfFollowup: *req.DateAtStartOfFollowup,
		totalSanctions:        *req.TotalNumberOfSanctions,
		counts:                narrowSexualCounts(req),
		strangerVictim:        *req.IsCurrentOffenceAgainstVictimStranger,
	}
}

func ospDcPoints(in ospDcInput) (int, error) {
	age, err := AgeAt(in.dateOfBirth, in.dateAtStartOfFollowup, types.FieldDateOfBirth, types.FieldDateAtStartOfFollowup)
	if err != nil {
		return 0, err
	}
	agePoints, err := ospDcAgePoints.Lookup(age)
	if err != nil {
		return 0, computationError(err, "No age weighting", types.FieldDateOfBirth)
	}
	contactPoints, err := ospDcContactPoints.Lookup(in.counts.contactAdult + in.counts.contactChild)
	if err != nil {
		return 0, computationError(err, "No contact offence weighting",
			types.FieldTotalContactAdultSexualSanctions, types.FieldTotalContactChildSexualSanctions)
	}

	points := agePoints + contactPoints
	points += boolScore(in.counts.indecentImage+in.counts.nonContact > 0, 1)
	points += boolScore(in.strangerVictim, 1)
	points += boolScore(in.totalSanctions > in.counts.total(), 1)
	return points, nil
}

func computeOSPDC(in ospDcInput) (OSPDCOutput, error) {
	points, err := ospDcPoints(in)
	if err != nil {
		return OSPDCOutput{}, err
	}
	score, err := logisticPercentage(ospDcIntercept + ospDcCoefficient*float64(points))
	if err != nil {
		return OSPDCOutput{}, err
	}
	return OSPDCOutput{
		Points:           &points,
		Score:            &score,
		Band:             bandPtr(ospDcBands.Band(score)),
		ValidationErrors: noErrors(),
	}, nil
}

// OSPDC is the direct contact sexual reoffending predictor.
type OSPDC struct{}

func (OSPDC) Name() Predictor { return PredictorOSPDC }

func (OSPDC) Produce(req *types.RiskScoreRequest, rc Context) Context {
	out := pipeline[OSPDCOutput]{
		validate: func() validation.Errors { return validateOSPDC(req) },
		exempt: func() (OSPDCOutput, bool) {
			if sexualPredictorExempt(req) {
				return OSPDCOutput{Band: bandPtr(NotApplicable), ValidationErrors: noErrors()}, true
			}
			return OSPDCOutput{}, false
		},
		compute: func() (OSPDCOutput, error) { return computeOSPDC(narrowOSPDC(req)) },
		failed:  func(errs []validation.Error) OSPDCOutput { return OSPDCOutput{ValidationErrors: errs} },
	}.run()
	return rc.WithOSPDC(out)
}
