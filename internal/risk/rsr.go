package risk

import (
	"math"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/offence"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

const (
	snsvStaticIntercept  = -6.2
	snsvDynamicIntercept = -6.6
	snsvMale             = 0.62
	snsvViolentHistory   = 0.41
	snsvTotalHistory     = 0.18
	snsvViolentOffence   = 0.35

	upstreamOSPDCScore  = "ospDcScore"
	upstreamOSPIICScore = "ospIicScore"
)

var snsvAgeWeights = RangeTable[float64]{
	{Min: 10, Max: 17, Value: 1.02},
	{Min: 18, Max: 20, Value: 0.96},
	{Min: 21, Max: 24, Value: 0.78},
	{Min: 25, Max: 29, Value: 0.55},
	{Min: 30, Max: 34, Value: 0.38},
	{Min: 35, Max: 39, Value: 0.21},
	{Min: 40, Max: 49, Value: 0},
	{Min: 50, Max: -1, Value: -0.47},
}

var rsrRequired = []types.Field{
	types.FieldGender,
	types.FieldDateOfBirth,
	types.FieldDateOfCurrentConviction,
	types.FieldDateAtStartOfFollowup,
	types.FieldTotalNumberOfSanctions,
	types.FieldTotalNumberOfViolentSanctions,
	types.FieldAgeAtFirstSanction,
	types.FieldCurrentOffenceCode,
}

// snsvDynamicFields must all be present for the dynamic SNSV variant.
var snsvDynamicFields = []types.Field{
	types.FieldSuitabilityOfAccommodation,
	types.FieldIsUnemployed,
	types.FieldCurrentRelationshipWithPartner,
	types.FieldEvidenceOfDomesticAbuse,
	types.FieldCurrentAlcoholUseProblems,
	types.FieldExcessiveAlcoholUse,
	types.FieldImpulsivityProblems,
	types.FieldTemperControl,
	types.FieldProCriminalAttitudes,
	types.FieldCarryOrUseWeapon,
}

type snsvDynamicInput struct {
	accommodation        types.ProblemLevel
	unemployed           bool
	relationship         types.ProblemLevel
	perpetrator          bool
	alcoholUse           types.ProblemLevel
	excessiveAlcohol     types.ProblemLevel
	impulsivity          types.ProblemLevel
	temperControl        types.ProblemLevel
	proCriminalAttitudes types.ProblemLevel
	weapon               bool
}

type rsrInput struct {
	gender                types.Gender
	dateOfBirth           types.Date
	dateAtStartOfFollowup types.Date
	totalSanctions        int
	violentSanctions      int
	offenceCode           string
	// dynamic is nil when the static variant applies.
	dynamic *snsvDynamicInput
	ospDc   int
	ospIic  int
}

// upstreamScore returns the sexual predictor contribution: zero when the
// predictor did not apply, and false when it failed or never ran.
func upstreamScore(score *int, band *RiskBand) (int, bool) {
	if score != nil {
		return *score, true
	}
	if band != nil && *band == NotApplicable {
		return 0, true
	}
	return 0, false
}

func validateRSR(req *types.RiskScoreRequest, rc Context) validation.Errors {
	var errs validation.Errors
	errs.Add(validation.RequireFields(req, missingMessage, rsrRequired...))
	errs.Add(validation.CheckOffenceCode(req))
	errs = append(errs, criminalHistoryRules(req)...)
	errs = append(errs, violentHistoryRules(req)...)
	errs = append(errs, sexualHistoryRules(req)...)

	if rc.OSPDC == nil {
		errs.Append(upstreamMissing("Direct contact sexual reoffending score is required", upstreamOSPDCScore))
	} else if _, ok := upstreamScore(rc.OSPDC.Score, rc.OSPDC.Band); !ok {
		errs.Append(upstreamMissing("Direct contact sexual reoffending score is required", upstreamOSPDCScore))
	}
	if rc.OSPIIC == nil {
		errs.Append(upstreamMissing("Indirect contact sexual reoffending score is required", upstreamOSPIICScore))
	} else if _, ok := upstreamScore(rc.OSPIIC.Score, rc.OSPIIC.Band); !ok {
		errs.Append(upstreamMissing("Indirect contact sexual reoffending score is required", upstreamOSPIICScore))
	}
	return errs
}

// narrowSNSVDynamic returns the dynamic inputs, or nil when any is missing.
func narrowSNSVDynamic(req *types.RiskScoreRequest) *snsvDynamicInput {
	if len(validation.MissingFields(req, snsvDynamicFields...)) > 0 {
		return nil
	}
	perpetrator, known := domesticAbusePerpetrator(req)
	if !known {
		return nil
	}
	return &snsvDynamicInput{
		accommodation:        *req.SuitabilityOfAccommodation,
		unemployed:           *req.IsUnemployed,
		relationship:         *req.CurrentRelationshipWithPartner,
		perpetrator:          perpetrator,
		alcoholUse:           *req.CurrentAlcoholUseProblems,
		excessiveAlcohol:     *req.ExcessiveAlcoholUse,
		impulsivity:          *req.ImpulsivityProblems,
		temperControl:        *req.TemperControl,
		proCriminalAttitudes: *req.ProCriminalAttitudes,
		weapon:               *req.CarryOrUseWeapon,
	}
}

func narrowRSR(req *types.RiskScoreRequest, rc Context) rsrInput {
	ospDc, _ := upstreamScore(rc.OSPDC.Score, rc.OSPDC.Band)
	ospIic, _ := upstreamScore(rc.OSPIIC.Score, rc.OSPIIC.Band)
	return rsrInput{
		gender:                *req.Gender,
		dateOfBirth:           *req.DateOfBirth,
		dateAtStartOfFollowup: *req.DateAtStartOfFollowup,
		totalSanctions:        *req.TotalNumberOfSanctions,
		violentSanctions:      *req.TotalNumberOfViolentSanctions,
		offenceCode:           *req.CurrentOffenceCode,
		dynamic:               narrowSNSVDynamic(req),
		ospDc:                 ospDc,
		ospIic:                ospIic,
	}
}

func snsvStaticTerms(in rsrInput, lookup OffenceLookup) (float64, error) {
	age, err := AgeAt(in.dateOfBirth, in.dateAtStartOfFollowup, types.FieldDateOfBirth, types.FieldDateAtStartOfFollowup)
	if err != nil {
		return 0, err
	}
	ageWeight, err := snsvAgeWeights.Lookup(age)
	if err != nil {
		return 0, computationError(err, "No age weighting", types.FieldDateOfBirth)
	}
	violentType, err := violentOrSexualType(lookup, in.offenceCode)
	if err != nil {
		return 0, err
	}

	terms := ageWeight +
		snsvViolentHistory*math.Log1p(float64(in.violentSanctions)) +
		snsvTotalHistory*math.Log1p(float64(in.totalSanctions))
	if in.gender == types.Male {
		terms += snsvMale
	}
	if violentType {
		terms += snsvViolentOffence
	}
	return terms, nil
}

func snsvDynamicTerms(d snsvDynamicInput) float64 {
	b := func(v bool) float64 {
		if v {
			return 1
		}
		return 0
	}
	return 0.16*float64(d.accommodation.Score()) +
		0.22*b(d.unemployed) +
		0.18*float64(d.relationship.Score()) +
		0.31*b(d.perpetrator) +
		0.14*float64(d.alcoholUse.Score()) +
		0.12*float64(d.excessiveAlcohol.Score()) +
		0.20*float64(d.impulsivity.Score()) +
		0.24*float64(d.temperControl.Score()) +
		0.19*float64(d.proCriminalAttitudes.Score()) +
		0.41*b(d.weapon)
}

// computeSNSV returns the serious non-sexual violence percentage and the
// variant used.
func computeSNSV(in rsrInput, lookup OffenceLookup) (int, SNSVVariant, error) {
	static, err := snsvStaticTerms(in, lookup)
	if err != nil {
		return 0, "", err
	}

	variant, intercept, weightingName := SNSVStatic, snsvStaticIntercept, offence.SNSVStaticWeighting
	dynamic := 0.0
	if in.dynamic != nil {
		variant, intercept, weightingName = SNSVDynamic, snsvDynamicIntercept, offence.SNSVDynamicWeighting
		dynamic = snsvDynamicTerms(*in.dynamic)
	}

	weighting, err := offenceWeighting(lookup, in.offenceCode, weightingName)
	if err != nil {
		return 0, "", err
	}
	score, err := logisticPercentage(intercept + static + weighting + dynamic)
	if err != nil {
		return 0, "", err
	}
	return score, variant, nil
}

func computeRSR(in rsrInput, lookup OffenceLookup) (RSROutput, error) {
	snsv, variant, err := computeSNSV(in, lookup)
	if err != nil {
		return RSROutput{}, err
	}
	score := min(snsv+in.ospDc+in.ospIic, 100)

	return RSROutput{
		Score:            &score,
		SNSVScore:        &snsv,
		Variant:          &variant,
		Band:             bandPtr(rsrBands.Band(score)),
		ValidationErrors: noErrors(),
	}, nil
}

// RSR is the combined serious reoffending predictor. It sums SNSV with the
// two sexual predictors already in the context.
type RSR struct {
	lookup OffenceLookup
}

func NewRSR(lookup OffenceLookup) RSR { return RSR{lookup: lookup} }

func (RSR) Name() Predictor { return PredictorRSR }

func (p RSR) Produce(req *types.RiskScoreRequest, rc Context) Context {
	out := pipeline[RSROutput]{
		validate: func() validation.Errors { return validateRSR(req, rc) },
		compute:  func() (RSROutput, error) { return computeRSR(narrowRSR(req, rc), p.lookup) },
		failed:   func(errs []validation.Error) RSROutput { return RSROutput{ValidationErrors: errs} },
	}.run()
	return rc.WithRSR(out)
}
