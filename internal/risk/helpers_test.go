package risk

import (
	"fmt"
	"time"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/offence"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
)

type stubOffence struct {
	weightings map[offence.WeightingName]float64
	violent    bool
}

type stubLookup map[string]stubOffence

func (s stubLookup) Weighting(code string, name offence.WeightingName) (float64, error) {
	o, ok := s[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", offence.ErrNotFound, code)
	}
	w, ok := o.weightings[name]
	if !ok {
		return 0, &offence.WeightingError{Code: code, Name: name, ErrorCode: "NEED_DETAILS_OF_EXACT_OFFENCE"}
	}
	return w, nil
}

func (s stubLookup) IsViolentOrSexualType(code string) (bool, error) {
	o, ok := s[code]
	if !ok {
		return false, fmt.Errorf("%w: %s", offence.ErrNotFound, code)
	}
	return o.violent, nil
}

func testLookup() stubLookup {
	return stubLookup{
		"05110": {
			weightings: map[offence.WeightingName]float64{
				offence.OGRS3Weighting:       2.0,
				offence.SNSVStaticWeighting:  0.2,
				offence.SNSVDynamicWeighting: 0.25,
			},
			violent: true,
		},
		"02000": {
			weightings: map[offence.WeightingName]float64{
				offence.OGRS3Weighting:      0.6,
				offence.SNSVStaticWeighting: -0.1,
			},
		},
	}
}

func date(y int, m time.Month, d int) *types.Date {
	v := types.NewDate(y, m, d)
	return &v
}

func pl(l types.ProblemLevel) *types.ProblemLevel { return &l }

// scenarioOneRequest is the reference OGRS3 case: 64% one year, 79% two year.
func scenarioOneRequest() *types.RiskScoreRequest {
	return &types.RiskScoreRequest{
		Gender:                  types.Ptr(types.Male),
		DateOfBirth:             date(1964, time.October, 15),
		DateOfCurrentConviction: date(2014, time.December, 13),
		DateAtStartOfFollowup:   date(2027, time.December, 12),
		TotalNumberOfSanctions:  types.Ptr(10),
		AgeAtFirstSanction:      types.Ptr(30),
		CurrentOffenceCode:      types.Ptr("05110"),
	}
}

// fullRequest answers every question for a male subject with no sexual
// offence history.
func fullRequest() *types.RiskScoreRequest {
	r := scenarioOneRequest()
	r.AssessmentDate = date(2025, time.January, 10)
	r.TotalNumberOfViolentSanctions = types.Ptr(3)
	r.CarryOrUseWeapon = types.Ptr(false)
	r.HasEverCommittedSexualOffence = types.Ptr(false)

	r.SuitabilityOfAccommodation = pl(types.SomeProblems)
	r.IsUnemployed = types.Ptr(true)
	r.CurrentRelationshipWithPartner = pl(types.SomeProblems)
	r.CloseFamilyRelationships = pl(types.NoProblems)
	r.EvidenceOfDomesticAbuse = types.Ptr(false)
	r.CurrentAlcoholUseProblems = pl(types.SignificantProblems)
	r.ExcessiveAlcoholUse = pl(types.SomeProblems)
	r.CurrentDrugMisuse = pl(types.NoProblems)
	r.HasCurrentPsychiatricTreatment = types.Ptr(false)
	r.ImpulsivityProblems = pl(types.SomeProblems)
	r.TemperControl = pl(types.SignificantProblems)
	r.ProCriminalAttitudes = pl(types.SomeProblems)
	r.HostileOrientation = pl(types.SomeProblems)
	r.ProblemSolvingSkills = pl(types.SignificantProblems)
	r.AwarenessOfConsequences = pl(types.SomeProblems)
	r.EasilyInfluencedByCriminalAssociates = pl(types.SomeProblems)

	r.PeerGroupInfluences = pl(types.SomeProblems)
	r.AttitudesPeerPressure = pl(types.SomeProblems)
	r.AttitudesStableBehaviour = pl(types.NoProblems)
	r.DifficultiesCoping = pl(types.SomeProblems)
	r.AttitudesTowardsSelf = pl(types.NoProblems)

	r.WorkRelatedSkills = pl(types.SomeProblems)
	r.ProblemsWithReadingWritingNumeracy = pl(types.SomeProblems)
	r.HasProblemsWithReading = types.Ptr(true)
	r.HasProblemsWithNumeracy = types.Ptr(false)
	r.LearningDifficulties = pl(types.NoProblems)
	r.ProfessionalOrVocationalQualifications = types.Ptr(types.NoQualifications)
	return r
}

// withSexualHistory adds an affirmed sexual offence history to r.
func withSexualHistory(r *types.RiskScoreRequest, adult, child, images, nonContact int) *types.RiskScoreRequest {
	r.HasEverCommittedSexualOffence = types.Ptr(true)
	r.IsCurrentOffenceSexuallyMotivated = types.Ptr(true)
	r.TotalContactAdultSexualSanctions = types.Ptr(adult)
	r.TotalContactChildSexualSanctions = types.Ptr(child)
	r.TotalIndecentImageSanctions = types.Ptr(images)
	r.TotalNonContactSexualOffences = types.Ptr(nonContact)
	r.IsCurrentOffenceAgainstVictimStranger = types.Ptr(false)
	r.SexualPreoccupation = pl(types.SomeProblems)
	r.SexualInterestOffenceRelated = pl(types.SomeProblems)
	r.EmotionalCongruenceWithChildren = pl(types.NoProblems)
	return r
}
