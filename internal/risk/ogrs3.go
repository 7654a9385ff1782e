package risk

import (
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/offence"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

const (
	ogrs3CopasCoefficient = 1.25112
	ogrs3OneYearShift     = 1.52109
	ogrs3TwoYearShift     = 2.27889
)

// Age/gender weights keyed on age at the start of follow-up.
var ogrs3AgeGender = map[types.Gender]RangeTable[float64]{
	types.Male: {
		{Min: 10, Max: 11, Value: 0},
		{Min: 12, Max: 13, Value: 0.08392},
		{Min: 14, Max: 15, Value: 0.07578},
		{Min: 16, Max: 17, Value: -0.06160},
		{Min: 18, Max: 20, Value: -0.41305},
		{Min: 21, Max: 24, Value: -0.64209},
		{Min: 25, Max: 29, Value: -0.71433},
		{Min: 30, Max: 34, Value: -0.80430},
		{Min: 35, Max: 39, Value: -0.82099},
		{Min: 40, Max: 49, Value: -1.12216},
		{Min: 50, Max: -1, Value: -1.55047},
	},
	types.Female: {
		{Min: 10, Max: 11, Value: -0.78391},
		{Min: 12, Max: 13, Value: -0.87140},
		{Min: 14, Max: 15, Value: -1.00120},
		{Min: 16, Max: 17, Value: -1.19580},
		{Min: 18, Max: 20, Value: -1.43630},
		{Min: 21, Max: 24, Value: -1.55580},
		{Min: 25, Max: 29, Value: -1.62170},
		{Min: 30, Max: 34, Value: -1.72980},
		{Min: 35, Max: 39, Value: -1.84420},
		{Min: 40, Max: 49, Value: -2.09160},
		{Min: 50, Max: -1, Value: -2.49130},
	},
}

var ogrs3Required = []types.Field{
	types.FieldGender,
	types.FieldDateOfBirth,
	types.FieldDateOfCurrentConviction,
	types.FieldDateAtStartOfFollowup,
	types.FieldTotalNumberOfSanctions,
	types.FieldAgeAtFirstSanction,
	types.FieldCurrentOffenceCode,
}

type ogrs3Input struct {
	gender                  types.Gender
	dateOfBirth             types.Date
	dateOfCurrentConviction types.Date
	dateAtStartOfFollowup   types.Date
	totalSanctions          int
	ageAtFirstSanction      int
	offenceCode             string
}

func validateOGRS3(req *types.RiskScoreRequest) validation.Errors {
	var errs validation.Errors
	errs.Add(validation.RequireFields(req, missingMessage, ogrs3Required...))
	errs.Add(validation.CheckOffenceCode(req))
	errs = append(errs, criminalHistoryRules(req)...)
	return errs
}

func narrowOGRS3(req *types.RiskScoreRequest) ogrs3Input {
	return ogrs3Input{
		gender:                  *req.Gender,
		dateOfBirth:             *req.DateOfBirth,
		dateOfCurrentConviction: *req.DateOfCurrentConviction,
		dateAtStartOfFollowup:   *req.DateAtStartOfFollowup,
		totalSanctions:          *req.TotalNumberOfSanctions,
		ageAtFirstSanction:      *req.AgeAtFirstSanction,
		offenceCode:             *req.CurrentOffenceCode,
	}
}

// ogrs3Total is the shared linear predictor before the horizon shift.
func ogrs3Total(in ogrs3Input, lookup OffenceLookup) (float64, error) {
	ageAtConviction := WholeYears(in.dateOfBirth.Time, in.dateOfCurrentConviction.Time)
	ageAtFollowup, err := AgeAt(in.dateOfBirth, in.dateAtStartOfFollowup,
		types.FieldDateOfBirth, types.FieldDateAtStartOfFollowup)
	if err != nil {
		return 0, err
	}

	ageGender, err := ogrs3AgeGender[in.gender].Lookup(ageAtFollowup)
	if err != nil {
		return 0, computationError(err, "No age/gender weighting", types.FieldGender, types.FieldDateOfBirth)
	}

	copas, err := Copas(in.totalSanctions, ageAtConviction, in.ageAtFirstSanction, ogrs3CopasCoefficient)
	if err != nil {
		return 0, computationError(err, "Unable to calculate Copas score",
			types.FieldTotalNumberOfSanctions, types.FieldAgeAtFirstSanction)
	}

	weighting, err := offenceWeighting(lookup, in.offenceCode, offence.OGRS3Weighting)
	if err != nil {
		return 0, err
	}

	return ageGender + copas + weighting, nil
}

func computeOGRS3(in ogrs3Input, lookup OffenceLookup) (OGRS3Output, error) {
	total, err := ogrs3Total(in, lookup)
	if err != nil {
		return OGRS3Output{}, err
	}
	oneYear, err := logisticPercentage(total + ogrs3OneYearShift)
	if err != nil {
		return OGRS3Output{}, err
	}
	twoYear, err := logisticPercentage(total + ogrs3TwoYearShift)
	if err != nil {
		return OGRS3Output{}, err
	}

	return OGRS3Output{
		OneYear:          &oneYear,
		TwoYear:          &twoYear,
		Band:             bandPtr(ogrs3Bands.Band(twoYear)),
		ValidationErrors: noErrors(),
	}, nil
}

// OGRS3 is the general reoffending predictor.
type OGRS3 struct {
	lookup OffenceLookup
}

func NewOGRS3(lookup OffenceLookup) OGRS3 { return OGRS3{lookup: lookup} }

func (OGRS3) Name() Predictor { return PredictorOGRS3 }

func (p OGRS3) Produce(req *types.RiskScoreRequest, rc Context) Context {
	out := pipeline[OGRS3Output]{
		validate: func() validation.Errors { return validateOGRS3(req) },
		compute:  func() (OGRS3Output, error) { return computeOGRS3(narrowOGRS3(req), p.lookup) },
		failed:   func(errs []validation.Error) OGRS3Output { return OGRS3Output{ValidationErrors: errs} },
	}.run()
	return rc.WithOGRS3(out)
}
