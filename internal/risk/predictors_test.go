package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

func TestOVP_Scores(t *testing.T) {
	out := OVP{}.Produce(fullRequest(), Context{}).OVP

	assert.Empty(t, out.ValidationErrors)
	require.NotNil(t, out.Score)
	assert.Equal(t, 55, *out.Score)
	assert.Equal(t, 29, *out.OneYear)
	assert.Equal(t, 46, *out.TwoYear)
	assert.Equal(t, Medium, *out.Band)
}

func TestOVP_ViolentExceedsTotal(t *testing.T) {
	req := fullRequest()
	req.TotalNumberOfViolentSanctions = types.Ptr(11)

	out := OVP{}.Produce(req, Context{}).OVP

	require.Len(t, out.ValidationErrors, 1)
	assert.Equal(t, validation.InconsistentInput, out.ValidationErrors[0].Type)
	assert.Equal(t, []string{"totalNumberOfViolentSanctions", "totalNumberOfSanctions"}, out.ValidationErrors[0].Fields)
	assert.Nil(t, out.Score)
}

func TestOVP_MissingDynamicFields(t *testing.T) {
	req := fullRequest()
	req.TemperControl = nil
	req.IsUnemployed = nil

	out := OVP{}.Produce(req, Context{}).OVP

	require.Len(t, out.ValidationErrors, 1)
	assert.Equal(t, []string{"isUnemployed", "temperControl"}, out.ValidationErrors[0].Fields)
}

func TestOGP_UsesUpstreamOGRS3(t *testing.T) {
	req := fullRequest()
	rc := NewOGRS3(testLookup()).Produce(req, Context{})

	out := OGP{}.Produce(req, rc).OGP

	assert.Empty(t, out.ValidationErrors)
	assert.Equal(t, 10, *out.NeedsScore)
	assert.Equal(t, 61, *out.OneYear)
	assert.Equal(t, 79, *out.TwoYear)
	assert.Equal(t, High, *out.Band)
}

func TestOGP_MissingUpstream(t *testing.T) {
	tests := []struct {
		name string
		rc   Context
	}{
		{"no OGRS3 slot", Context{}},
		{"OGRS3 failed", Context{}.WithOGRS3(OGRS3Output{ValidationErrors: []validation.Error{{Type: validation.MissingInput}}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := OGP{}.Produce(fullRequest(), tt.rc).OGP

			require.Len(t, out.ValidationErrors, 1)
			assert.Equal(t, validation.MissingInput, out.ValidationErrors[0].Type)
			assert.Equal(t, []string{"ogrs3TwoYear"}, out.ValidationErrors[0].Fields)
			assert.Nil(t, out.TwoYear)
		})
	}
}

func TestOSPDC(t *testing.T) {
	t.Run("female is not applicable", func(t *testing.T) {
		req := fullRequest()
		req.Gender = types.Ptr(types.Female)
		req.HasEverCommittedSexualOffence = nil

		out := OSPDC{}.Produce(req, Context{}).OSPDC
		assert.Empty(t, out.ValidationErrors)
		assert.Nil(t, out.Score)
		assert.Equal(t, NotApplicable, *out.Band)
	})

	t.Run("male without sexual history is not applicable", func(t *testing.T) {
		out := OSPDC{}.Produce(fullRequest(), Context{}).OSPDC
		assert.Empty(t, out.ValidationErrors)
		assert.Equal(t, NotApplicable, *out.Band)
	})

	t.Run("male must state sexual history", func(t *testing.T) {
		req := fullRequest()
		req.HasEverCommittedSexualOffence = nil

		out := OSPDC{}.Produce(req, Context{}).OSPDC
		require.Len(t, out.ValidationErrors, 1)
		assert.Equal(t, []string{"hasEverCommittedSexualOffence"}, out.ValidationErrors[0].Fields)
		assert.Nil(t, out.Band)
	})

	t.Run("scores contact history", func(t *testing.T) {
		req := withSexualHistory(fullRequest(), 2, 0, 1, 0)

		out := OSPDC{}.Produce(req, Context{}).OSPDC
		assert.Empty(t, out.ValidationErrors)
		assert.Equal(t, 3, *out.Points)
		assert.Equal(t, 5, *out.Score)
		assert.Equal(t, Medium, *out.Band)
	})

	t.Run("stranger victim required", func(t *testing.T) {
		req := withSexualHistory(fullRequest(), 2, 0, 1, 0)
		req.IsCurrentOffenceAgainstVictimStranger = nil

		out := OSPDC{}.Produce(req, Context{}).OSPDC
		require.Len(t, out.ValidationErrors, 1)
		assert.Equal(t, []string{"isCurrentOffenceAgainstVictimStranger"}, out.ValidationErrors[0].Fields)
	})
}

func TestOSPDC_PointsMonotonicInScore(t *testing.T) {
	prev := -1
	for points := 0; points <= 8; points++ {
		score, err := logisticPercentage(ospDcIntercept + ospDcCoefficient*float64(points))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestOSPIIC_Hierarchy(t *testing.T) {
	tests := []struct {
		name     string
		counts   sexualCounts
		score    int
		expected RiskBand
	}{
		{"two images beats everything", sexualCounts{indecentImage: 2, nonContact: 5, contactChild: 3}, 11, High},
		{"one image beats non-contact", sexualCounts{indecentImage: 1, nonContact: 4}, 6, Medium},
		{"two non-contact", sexualCounts{nonContact: 2}, 4, Medium},
		{"one non-contact", sexualCounts{nonContact: 1}, 2, Low},
		{"child contact only", sexualCounts{contactChild: 1}, 2, Low},
		{"adult contact only", sexualCounts{contactAdult: 3}, 1, Low},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := computeOSPIIC(tt.counts)
			require.NoError(t, err)
			assert.Equal(t, tt.score, *out.Score)
			assert.Equal(t, tt.expected, *out.Band)
		})
	}
}

func TestOSPIIC_Produce(t *testing.T) {
	req := withSexualHistory(fullRequest(), 2, 0, 1, 0)

	out := OSPIIC{}.Produce(req, Context{}).OSPIIC
	assert.Empty(t, out.ValidationErrors)
	assert.Equal(t, 6, *out.Score)
	assert.Equal(t, Medium, *out.Band)
}

func runUpstreamOf(p Predictor, req *types.RiskScoreRequest) Context {
	rc := Context{}
	for _, producer := range DefaultProducers(testLookup()) {
		if producer.Name() == p {
			return rc
		}
		rc = producer.Produce(req, rc)
	}
	return rc
}

func TestRSR_DynamicVariant(t *testing.T) {
	req := fullRequest()
	out := NewRSR(testLookup()).Produce(req, runUpstreamOf(PredictorRSR, req)).RSR

	assert.Empty(t, out.ValidationErrors)
	assert.Equal(t, SNSVDynamic, *out.Variant)
	assert.Equal(t, 4, *out.SNSVScore)
	assert.Equal(t, 4, *out.Score)
	assert.Equal(t, Medium, *out.Band)
}

func TestRSR_StaticVariantWhenDynamicFieldMissing(t *testing.T) {
	req := fullRequest()
	req.CarryOrUseWeapon = nil

	out := NewRSR(testLookup()).Produce(req, runUpstreamOf(PredictorRSR, req)).RSR

	assert.Empty(t, out.ValidationErrors)
	assert.Equal(t, SNSVStatic, *out.Variant)
	assert.Equal(t, 1, *out.Score)
	assert.Equal(t, Low, *out.Band)
}

func TestRSR_StaticWhenDomesticAbuseVictimUnknown(t *testing.T) {
	req := fullRequest()
	req.EvidenceOfDomesticAbuse = types.Ptr(true)

	out := NewRSR(testLookup()).Produce(req, runUpstreamOf(PredictorRSR, req)).RSR

	assert.Equal(t, SNSVStatic, *out.Variant)
}

func TestRSR_SumsSexualPredictors(t *testing.T) {
	req := withSexualHistory(fullRequest(), 2, 0, 1, 0)

	out := NewRSR(testLookup()).Produce(req, runUpstreamOf(PredictorRSR, req)).RSR

	assert.Empty(t, out.ValidationErrors)
	assert.Equal(t, 4, *out.SNSVScore)
	assert.Equal(t, 4+5+6, *out.Score)
	assert.Equal(t, High, *out.Band)
}

func TestRSR_MissingUpstream(t *testing.T) {
	out := NewRSR(testLookup()).Produce(fullRequest(), Context{}).RSR

	require.Len(t, out.ValidationErrors, 2)
	assert.Equal(t, []string{"ospDcScore"}, out.ValidationErrors[0].Fields)
	assert.Equal(t, []string{"ospIicScore"}, out.ValidationErrors[1].Fields)
	assert.Nil(t, out.Score)
}

func TestRSR_MissingDynamicWeighting(t *testing.T) {
	req := fullRequest()
	req.CurrentOffenceCode = types.Ptr("02000")

	out := NewRSR(testLookup()).Produce(req, runUpstreamOf(PredictorRSR, req)).RSR

	require.Len(t, out.ValidationErrors, 1)
	assert.Equal(t, validation.NoMatchingInput, out.ValidationErrors[0].Type)
	assert.Contains(t, out.ValidationErrors[0].Message, "NEED_DETAILS_OF_EXACT_OFFENCE")
}

func TestMST(t *testing.T) {
	t.Run("young adult male", func(t *testing.T) {
		req := fullRequest()
		req.DateOfBirth = date(2004, time.March, 1)

		out := MST{}.Produce(req, Context{}).MST
		assert.Empty(t, out.ValidationErrors)
		assert.Equal(t, 9, *out.Score)
		assert.False(t, *out.MaturityFlag)
		assert.Equal(t, Medium, *out.Band)
	})

	t.Run("outside age range", func(t *testing.T) {
		out := MST{}.Produce(fullRequest(), Context{}).MST
		assert.Empty(t, out.ValidationErrors)
		assert.Equal(t, NotApplicable, *out.Band)
		assert.Nil(t, out.Score)
	})

	t.Run("female", func(t *testing.T) {
		req := fullRequest()
		req.Gender = types.Ptr(types.Female)
		req.DateOfBirth = date(2004, time.March, 1)

		out := MST{}.Produce(req, Context{}).MST
		assert.Equal(t, NotApplicable, *out.Band)
	})

	t.Run("missing answers for eligible subject", func(t *testing.T) {
		req := fullRequest()
		req.DateOfBirth = date(2004, time.March, 1)
		req.PeerGroupInfluences = nil

		out := MST{}.Produce(req, Context{}).MST
		require.Len(t, out.ValidationErrors, 1)
		assert.Equal(t, []string{"peerGroupInfluences"}, out.ValidationErrors[0].Fields)
	})

	t.Run("missing assessment date", func(t *testing.T) {
		req := fullRequest()
		req.AssessmentDate = nil

		out := MST{}.Produce(req, Context{}).MST
		require.Len(t, out.ValidationErrors, 1)
		assert.Equal(t, []string{"assessmentDate"}, out.ValidationErrors[0].Fields)
		assert.Nil(t, out.Band)
	})
}

func TestLDS(t *testing.T) {
	t.Run("all answered", func(t *testing.T) {
		out := LDS{}.Produce(fullRequest(), Context{}).LDS
		assert.Empty(t, out.ValidationErrors)
		assert.Equal(t, 3, *out.Score)
		assert.Equal(t, Medium, *out.Band)
	})

	t.Run("three of four is enough", func(t *testing.T) {
		req := fullRequest()
		req.WorkRelatedSkills = nil

		out := LDS{}.Produce(req, Context{}).LDS
		assert.Empty(t, out.ValidationErrors)
		assert.Equal(t, 2, *out.Score)
	})

	t.Run("two of four is not applicable", func(t *testing.T) {
		req := fullRequest()
		req.WorkRelatedSkills = nil
		req.LearningDifficulties = nil

		out := LDS{}.Produce(req, Context{}).LDS
		require.Len(t, out.ValidationErrors, 1)
		assert.Equal(t, validation.NotApplicable, out.ValidationErrors[0].Type)
		assert.Equal(t, []string{"workRelatedSkills", "learningDifficulties"}, out.ValidationErrors[0].Fields)
		assert.Nil(t, out.Score)
	})

	t.Run("reading and numeracy both flagged", func(t *testing.T) {
		req := fullRequest()
		req.HasProblemsWithNumeracy = types.Ptr(true)

		out := LDS{}.Produce(req, Context{}).LDS
		assert.Equal(t, 4, *out.Score)
	})

	t.Run("flags contradict no problems", func(t *testing.T) {
		req := fullRequest()
		req.ProblemsWithReadingWritingNumeracy = pl(types.NoProblems)

		out := LDS{}.Produce(req, Context{}).LDS
		require.Len(t, out.ValidationErrors, 1)
		assert.Equal(t, validation.InconsistentInput, out.ValidationErrors[0].Type)
		assert.Equal(t, []string{"problemsWithReadingWritingNumeracy", "hasProblemsWithReading"}, out.ValidationErrors[0].Fields)
	})

	t.Run("flags score without a literacy level", func(t *testing.T) {
		tests := []struct {
			name     string
			reading  *bool
			numeracy *bool
			want     int
		}{
			{"no flags", nil, nil, 0},
			{"flags false", types.Ptr(false), types.Ptr(false), 0},
			{"reading only", types.Ptr(true), nil, 1},
			{"numeracy only", types.Ptr(false), types.Ptr(true), 1},
			{"both", types.Ptr(true), types.Ptr(true), 2},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := fullRequest()
				req.WorkRelatedSkills = pl(types.NoProblems)
				req.LearningDifficulties = pl(types.NoProblems)
				req.ProfessionalOrVocationalQualifications = types.Ptr(types.HasQualifications)
				req.ProblemsWithReadingWritingNumeracy = nil
				req.HasProblemsWithReading = tt.reading
				req.HasProblemsWithNumeracy = tt.numeracy

				out := LDS{}.Produce(req, Context{}).LDS
				assert.Empty(t, out.ValidationErrors)
				require.NotNil(t, out.Score)
				assert.Equal(t, tt.want, *out.Score)
			})
		}
	})

	t.Run("some problems with both flags scores as significant", func(t *testing.T) {
		req := fullRequest()
		req.WorkRelatedSkills = pl(types.NoProblems)
		req.ProfessionalOrVocationalQualifications = types.Ptr(types.HasQualifications)
		req.HasProblemsWithNumeracy = types.Ptr(true)

		out := LDS{}.Produce(req, Context{}).LDS
		assert.Equal(t, 2, *out.Score)
	})
}

func TestPNI(t *testing.T) {
	t.Run("high risk high need", func(t *testing.T) {
		req := fullRequest()
		out := NewPNI().Produce(req, runUpstreamOf(PredictorPNI, req)).PNI

		assert.Empty(t, out.ValidationErrors)
		assert.Equal(t, 10, *out.Score)
		assert.Equal(t, HighIntensity, *out.Pathway)
		assert.Equal(t, High, *out.Band)
		assert.Equal(t, High, out.Domains.Thinking)
		assert.Equal(t, Low, out.Domains.Relationships)
		assert.Equal(t, High, out.Domains.SelfManagement)
		assert.Nil(t, out.Domains.Sexual)
	})

	t.Run("sexual domain included with history", func(t *testing.T) {
		req := withSexualHistory(fullRequest(), 2, 0, 1, 0)
		out := NewPNI().Produce(req, runUpstreamOf(PredictorPNI, req)).PNI

		assert.Empty(t, out.ValidationErrors)
		assert.Equal(t, 12, *out.Score)
		require.NotNil(t, out.Domains.Sexual)
		assert.Equal(t, Medium, *out.Domains.Sexual)
	})

	t.Run("missing upstream bands", func(t *testing.T) {
		out := NewPNI().Produce(fullRequest(), Context{}).PNI

		require.Len(t, out.ValidationErrors, 2)
		assert.Equal(t, []string{"ogrs3TwoYear"}, out.ValidationErrors[0].Fields)
		assert.Equal(t, []string{"ovpTwoYear"}, out.ValidationErrors[1].Fields)
	})

	t.Run("domestic abuse victim type required", func(t *testing.T) {
		req := fullRequest()
		req.EvidenceOfDomesticAbuse = types.Ptr(true)

		out := NewPNI().Produce(req, runUpstreamOf(PredictorPNI, req)).PNI
		require.Len(t, out.ValidationErrors, 1)
		assert.Equal(t, []string{"domesticAbuseAgainstPartner", "domesticAbuseAgainstFamily"}, out.ValidationErrors[0].Fields)
	})
}

func TestPathway(t *testing.T) {
	tests := []struct {
		risk, need RiskBand
		expected   Pathway
	}{
		{Low, High, Alternative},
		{High, Low, LowIntensity},
		{Medium, Low, LowIntensity},
		{High, High, HighIntensity},
		{High, Medium, ModerateIntensity},
		{Medium, High, ModerateIntensity},
		{Medium, Medium, ModerateIntensity},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, pathway(tt.risk, tt.need), "risk %s need %s", tt.risk, tt.need)
	}
}

func TestOverallNeed(t *testing.T) {
	assert.Equal(t, High, overallNeed(PNIDomains{Thinking: Low, Relationships: Low, SelfManagement: Low, Sexual: bandPtr(High)}))
	assert.Equal(t, High, overallNeed(PNIDomains{Thinking: High, Relationships: High, SelfManagement: Low}))
	assert.Equal(t, Medium, overallNeed(PNIDomains{Thinking: High, Relationships: Low, SelfManagement: Low}))
	assert.Equal(t, Medium, overallNeed(PNIDomains{Thinking: Medium, Relationships: Medium, SelfManagement: Low}))
	assert.Equal(t, Low, overallNeed(PNIDomains{Thinking: Medium, Relationships: Low, SelfManagement: Low}))
}
