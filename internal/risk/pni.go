package risk

import (
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

const upstreamOVPTwoYear = "ovpTwoYear"

var (
	pniThinkingBands       = Thresholds{{0, Low}, {2, Medium}, {5, High}}
	pniRelationshipBands   = Thresholds{{0, Low}, {2, Medium}, {4, High}}
	pniSelfManagementBands = Thresholds{{0, Low}, {2, Medium}, {4, High}}
	pniSexualBands         = Thresholds{{0, Low}, {1, Medium}, {3, High}}
)

var pniRequired = []types.Field{
	types.FieldProCriminalAttitudes,
	types.FieldHostileOrientation,
	types.FieldProblemSolvingSkills,
	types.FieldAwarenessOfConsequences,
	types.FieldCurrentRelationshipWithPartner,
	types.FieldCloseFamilyRelationships,
	types.FieldEvidenceOfDomesticAbuse,
	types.FieldImpulsivityProblems,
	types.FieldTemperControl,
	types.FieldDifficultiesCoping,
}

var pniSexualRequired = []types.Field{
	types.FieldSexualPreoccupation,
	types.FieldSexualInterestOffenceRelated,
	types.FieldEmotionalCongruenceWithChildren,
}

type pniSexualInput struct {
	preoccupation      types.ProblemLevel
	offenceInterest    types.ProblemLevel
	congruenceChildren types.ProblemLevel
}

type pniInput struct {
	proCriminalAttitudes types.ProblemLevel
	hostileOrientation   types.ProblemLevel
	problemSolving       types.ProblemLevel
	awareness            types.ProblemLevel
	partner              types.ProblemLevel
	family               types.ProblemLevel
	perpetrator          bool
	impulsivity          types.ProblemLevel
	temperControl        types.ProblemLevel
	coping               types.ProblemLevel
	// sexual is nil when the subject has no sexual offence history.
	sexual *pniSexualInput
	risk   RiskBand
}

func validatePNI(req *types.RiskScoreRequest, rc Context) validation.Errors {
	var errs validation.Errors
	errs.Add(validation.RequireFields(req, missingMessage, pniRequired...))
	if hasSexualHistory(req) {
		errs.Add(validation.RequireFields(req, "Sexual needs are required when sexual offence history is recorded",
			pniSexualRequired...))
	}
	if deref(req.EvidenceOfDomesticAbuse) && req.DomesticAbuseAgainstPartner == nil && req.DomesticAbuseAgainstFamily == nil {
		errs.Append(validation.New(validation.MissingInput,
			"Domestic abuse victim type is required when domestic abuse is evidenced",
			types.FieldDomesticAbuseAgainstPartner, types.FieldDomesticAbuseAgainstFamily))
	}
	if rc.OGRS3 == nil || rc.OGRS3.Band == nil {
		errs.Append(upstreamMissing("General reoffending score is required", upstreamOGRS3TwoYear))
	}
	if rc.OVP == nil || rc.OVP.Band == nil {
		errs.Append(upstreamMissing("Violent reoffending score is required", upstreamOVPTwoYear))
	}
	return errs
}

// pniRisk is the highest upstream band, with VERY_HIGH treated as HIGH.
func pniRisk(rc Context) RiskBand {
	bands := []*RiskBand{rc.OGRS3.Band, rc.OVP.Band}
	if rc.RSR != nil {
		bands = append(bands, rc.RSR.Band)
	}
	if rc.OSPDC != nil {
		bands = append(bands, rc.OSPDC.Band)
	}
	risk, _ := highest(bands...)
	if risk == VeryHigh {
		return High
	}
	return risk
}

func narrowPNI(req *types.RiskScoreRequest, rc Context) pniInput {
	perpetrator, _ := domesticAbusePerpetrator(req)
	in := pniInput{
		proCriminalAttitudes: *req.ProCriminalAttitudes,
		hostileOrientation:   *req.HostileOrientation,
		problemSolving:       *req.ProblemSolvingSkills,
		awareness:            *req.AwarenessOfConsequences,
		partner:              *req.CurrentRelationshipWithPartner,
		family:               *req.CloseFamilyRelationships,
		perpetrator:          perpetrator,
		impulsivity:          *req.ImpulsivityProblems,
		temperControl:        *req.TemperControl,
		coping:               *req.DifficultiesCoping,
		risk:                 pniRisk(rc),
	}
	if hasSexualHistory(req) {
		in.sexual = &pniSexualInput{
			preoccupation:      *req.SexualPreoccupation,
			offenceInterest:    *req.SexualInterestOffenceRelated,
			congruenceChildren: *req.EmotionalCongruenceWithChildren,
		}
	}
	return in
}

// overallNeed combines the domain levels. A high sexual need is enough on
// its own; otherwise two high domains are needed.
func overallNeed(d PNIDomains) RiskBand {
	levels := []RiskBand{d.Thinking, d.Relationships, d.SelfManagement}
	if d.Sexual != nil {
		levels = append(levels, *d.Sexual)
	}
	highs, mediums := 0, 0
	for _, l := range levels {
		switch l {
		case High:
			highs++
		case Medium:
			mediums++
		}
	}
	switch {
	case d.Sexual != nil && *d.Sexual == High, highs >= 2:
		return High
	case highs == 1, mediums >= 2:
		return Medium
	}
	return Low
}

func pathway(risk, need RiskBand) Pathway {
	switch {
	case risk == Low:
		return Alternative
	case need == Low:
		return LowIntensity
	case risk == High && need == High:
		return HighIntensity
	}
	return ModerateIntensity
}

func computePNI(in pniInput) (PNIOutput, error) {
	thinking := in.proCriminalAttitudes.Score() + in.hostileOrientation.Score() +
		in.problemSolving.Score() + in.awareness.Score()
	relationships := in.partner.Score() + in.family.Score() + boolScore(in.perpetrator, 2)
	selfManagement := in.impulsivity.Score() + in.temperControl.Score() + in.coping.Score()

	domains := PNIDomains{
		Thinking:       pniThinkingBands.Band(thinking),
		Relationships:  pniRelationshipBands.Band(relationships),
		SelfManagement: pniSelfManagementBands.Band(selfManagement),
	}
	score := thinking + relationships + selfManagement
	if in.sexual != nil {
		sexual := in.sexual.preoccupation.Score() + in.sexual.offenceInterest.Score() + in.sexual.congruenceChildren.Score()
		domains.Sexual = bandPtr(pniSexualBands.Band(sexual))
		score += sexual
	}

	need := overallNeed(domains)
	route := pathway(in.risk, need)
	return PNIOutput{
		Score:            &score,
		Pathway:          &route,
		Domains:          &domains,
		Band:             bandPtr(need),
		ValidationErrors: noErrors(),
	}, nil
}

// PNI is the programme needs identification. It combines criminogenic
// needs with the upstream risk bands to recommend a programme pathway.
type PNI struct{}

func (PNI) Name() Predictor { return PredictorPNI }

func (PNI) Produce(req *types.RiskScoreRequest, rc Context) Context {
	out := pipeline[PNIOutput]{
		validate: func() validation.Errors { return validatePNI(req, rc) },
		compute:  func() (PNIOutput, error) { return computePNI(narrowPNI(req, rc)) },
		failed:   func(errs []validation.Error) PNIOutput { return PNIOutput{ValidationErrors: errs} },
	}.run()
	return rc.WithPNI(out)
}
