package risk

import (
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

const (
	ovpOneYearIntercept   = -4.21
	ovpOneYearCoefficient = 0.0606
	ovpTwoYearIntercept   = -3.57
	ovpTwoYearCoefficient = 0.0623
	ovpMalePoints         = 5
)

var (
	ovpAgePoints = RangeTable[int]{
		{Min: 10, Max: 20, Value: 20},
		{Min: 21, Max: 24, Value: 16},
		{Min: 25, Max: 29, Value: 12},
		{Min: 30, Max: 34, Value: 8},
		{Min: 35, Max: 39, Value: 4},
		{Min: 40, Max: 49, Value: 2},
		{Min: 50, Max: -1, Value: 0},
	}
	ovpViolentPoints = RangeTable[int]{
		{Min: 0, Max: 0, Value: 0},
		{Min: 1, Max: 1, Value: 4},
		{Min: 2, Max: 2, Value: 8},
		{Min: 3, Max: 4, Value: 12},
		{Min: 5, Max: 6, Value: 16},
		{Min: 7, Max: -1, Value: 20},
	}
	ovpNonViolentPoints = RangeTable[int]{
		{Min: 0, Max: 0, Value: 0},
		{Min: 1, Max: 2, Value: 2},
		{Min: 3, Max: 4, Value: 4},
		{Min: 5, Max: 6, Value: 6},
		{Min: 7, Max: 8, Value: 8},
		{Min: 9, Max: -1, Value: 10},
	}
)

var ovpRequired = []types.Field{
	types.FieldGender,
	types.FieldDateOfBirth,
	types.FieldDateAtStartOfFollowup,
	types.FieldTotalNumberOfSanctions,
	types.FieldTotalNumberOfViolentSanctions,
	types.FieldSuitabilityOfAccommodation,
	types.FieldIsUnemployed,
	types.FieldCurrentAlcoholUseProblems,
	types.FieldExcessiveAlcoholUse,
	types.FieldHasCurrentPsychiatricTreatment,
	types.FieldTemperControl,
	types.FieldProCriminalAttitudes,
}

type ovpInput struct {
	gender                types.Gender
	dateOfBirth           types.Date
	dateAtStartOfFollowup types.Date
	totalSanctions        int
	violentSanctions      int
	accommodation         types.ProblemLevel
	unemployed            bool
	alcoholUse            types.ProblemLevel
	excessiveAlcohol      types.ProblemLevel
	psychiatricTreatment  bool
	temperControl         types.ProblemLevel
	proCriminalAttitudes  types.ProblemLevel
}

func validateOVP(req *types.RiskScoreRequest) validation.Errors {
	var errs validation.Errors
	errs.Add(validation.RequireFields(req, missingMessage, ovpRequired...))
	if req.TotalNumberOfSanctions != nil && *req.TotalNumberOfSanctions < 1 {
		errs.Append(validation.New(validation.BelowMinValue,
			"Total number of sanctions must be at least 1", types.FieldTotalNumberOfSanctions))
	}
	errs = append(errs, violentHistoryRules(req)...)
	return errs
}

func narrowOVP(req *types.RiskScoreRequest) ovpInput {
	return ovpInput{
		gender:                *req.Gender,
		dateOfBirth:           *req.DateOfBirth,
		dateAtStartOfFollowup: *req.DateAtStartOfFollowup,
		totalSanctions:        *req.TotalNumberOfSanctions,
		violentSanctions:      *req.TotalNumberOfViolentSanctions,
		accommodation:         *req.SuitabilityOfAccommodation,
		unemployed:            *req.IsUnemployed,
		alcoholUse:            *req.CurrentAlcoholUseProblems,
		excessiveAlcohol:      *req.ExcessiveAlcoholUse,
		psychiatricTreatment:  *req.HasCurrentPsychiatricTreatment,
		temperControl:         *req.TemperControl,
		proCriminalAttitudes:  *req.ProCriminalAttitudes,
	}
}

func ovpStaticPoints(in ovpInput) (int, error) {
	age, err := AgeAt(in.dateOfBirth, in.dateAtStartOfFollowup, types.FieldDateOfBirth, types.FieldDateAtStartOfFollowup)
	if err != nil {
		return 0, err
	}
	agePoints, err := ovpAgePoints.Lookup(age)
	if err != nil {
		return 0, computationError(err, "No age weighting", types.FieldDateOfBirth)
	}
	violent, err := ovpViolentPoints.Lookup(in.violentSanctions)
	if err != nil {
		return 0, computationError(err, "No violent sanction weighting", types.FieldTotalNumberOfViolentSanctions)
	}
	nonViolent, err := ovpNonViolentPoints.Lookup(in.totalSanctions - in.violentSanctions)
	if err != nil {
		return 0, computationError(err, "No non-violent sanction weighting",
			types.FieldTotalNumberOfSanctions, types.FieldTotalNumberOfViolentSanctions)
	}
	return agePoints + boolScore(in.gender == types.Male, ovpMalePoints) + violent + nonViolent, nil
}

func ovpDynamicPoints(in ovpInput) int {
	return in.accommodation.Score()*3 +
		boolScore(in.unemployed, 6) +
		(in.alcoholUse.Score()+in.excessiveAlcohol.Score())*2 +
		boolScore(in.psychiatricTreatment, 5) +
		in.temperControl.Score()*5 +
		in.proCriminalAttitudes.Score()*5
}

func computeOVP(in ovpInput) (OVPOutput, error) {
	static, err := ovpStaticPoints(in)
	if err != nil {
		return OVPOutput{}, err
	}
	score := static + ovpDynamicPoints(in)

	oneYear, err := logisticPercentage(ovpOneYearIntercept + ovpOneYearCoefficient*float64(score))
	if err != nil {
		return OVPOutput{}, err
	}
	twoYear, err := logisticPercentage(ovpTwoYearIntercept + ovpTwoYearCoefficient*float64(score))
	if err != nil {
		return OVPOutput{}, err
	}

	return OVPOutput{
		Score:            &score,
		OneYear:          &oneYear,
		TwoYear:          &twoYear,
		Band:             bandPtr(ovpBands.Band(twoYear)),
		ValidationErrors: noErrors(),
	}, nil
}

// OVP is the violent reoffending predictor.
type OVP struct{}

func (OVP) Name() Predictor { return PredictorOVP }

func (OVP) Produce(req *types.RiskScoreRequest, rc Context) Context {
	out := pipeline[OVPOutput]{
		validate: func() validation.Errors { return validateOVP(req) },
		compute:  func() (OVPOutput, error) { return computeOVP(narrowOVP(req)) },
		failed:   func(errs []validation.Error) OVPOutput { return OVPOutput{ValidationErrors: errs} },
	}.run()
	return rc.WithOVP(out)
}
