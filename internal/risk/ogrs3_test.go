package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

func TestOGRS3_ScenarioOne(t *testing.T) {
	rc := NewOGRS3(testLookup()).Produce(scenarioOneRequest(), Context{})

	require.NotNil(t, rc.OGRS3)
	out := rc.OGRS3
	assert.Empty(t, out.ValidationErrors)
	require.NotNil(t, out.OneYear)
	require.NotNil(t, out.TwoYear)
	require.NotNil(t, out.Band)
	assert.Equal(t, 64, *out.OneYear)
	assert.Equal(t, 79, *out.TwoYear)
	assert.Equal(t, High, *out.Band)
}

func TestOGRS3_AllFieldsMissing(t *testing.T) {
	rc := NewOGRS3(testLookup()).Produce(&types.RiskScoreRequest{}, Context{})

	out := rc.OGRS3
	require.NotNil(t, out)
	assert.Nil(t, out.OneYear)
	assert.Nil(t, out.TwoYear)
	assert.Nil(t, out.Band)
	require.Len(t, out.ValidationErrors, 1)
	assert.Equal(t, validation.MissingInput, out.ValidationErrors[0].Type)
	assert.Equal(t, []string{
		"gender",
		"dateOfBirth",
		"dateOfCurrentConviction",
		"dateAtStartOfFollowup",
		"totalNumberOfSanctions",
		"ageAtFirstSanction",
		"currentOffenceCode",
	}, out.ValidationErrors[0].Fields)
}

func TestOGRS3_Validation(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(r *types.RiskScoreRequest)
		expected []validation.Error
	}{
		{
			name:   "offence code wrong length",
			modify: func(r *types.RiskScoreRequest) { r.CurrentOffenceCode = types.Ptr("0511") },
			expected: []validation.Error{
				{Type: validation.InvalidFormat, Message: "Offence code must be 5 characters", Fields: []string{"currentOffenceCode"}},
			},
		},
		{
			name:   "no sanctions",
			modify: func(r *types.RiskScoreRequest) { r.TotalNumberOfSanctions = types.Ptr(0) },
			expected: []validation.Error{
				{Type: validation.BelowMinValue, Message: "Total number of sanctions must be at least 1", Fields: []string{"totalNumberOfSanctions"}},
			},
		},
		{
			name:   "first sanction after current conviction",
			modify: func(r *types.RiskScoreRequest) { r.AgeAtFirstSanction = types.Ptr(51) },
			expected: []validation.Error{
				{
					Type:    validation.InconsistentInput,
					Message: "Age at first sanction cannot be greater than age at current conviction",
					Fields:  []string{"ageAtFirstSanction", "dateOfBirth", "dateOfCurrentConviction"},
				},
			},
		},
		{
			name: "convicted before age ten",
			modify: func(r *types.RiskScoreRequest) {
				r.DateOfBirth = date(2010, time.January, 1)
				r.AgeAtFirstSanction = types.Ptr(10)
			},
			expected: []validation.Error{
				{Type: validation.BelowMinValue, Message: "Age at current conviction must be at least 10", Fields: []string{"dateOfBirth", "dateOfCurrentConviction"}},
			},
		},
		{
			name: "missing field and bad format reported separately",
			modify: func(r *types.RiskScoreRequest) {
				r.Gender = nil
				r.CurrentOffenceCode = types.Ptr("123456")
			},
			expected: []validation.Error{
				{Type: validation.MissingInput, Message: missingMessage, Fields: []string{"gender"}},
				{Type: validation.InvalidFormat, Message: "Offence code must be 5 characters", Fields: []string{"currentOffenceCode"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := scenarioOneRequest()
			tt.modify(req)

			out := NewOGRS3(testLookup()).Produce(req, Context{}).OGRS3
			assert.Equal(t, tt.expected, out.ValidationErrors)
			assert.Nil(t, out.TwoYear)
			assert.Nil(t, out.Band)
		})
	}
}

func TestOGRS3_ComputationErrors(t *testing.T) {
	t.Run("unknown offence code", func(t *testing.T) {
		req := scenarioOneRequest()
		req.CurrentOffenceCode = types.Ptr("99999")

		out := NewOGRS3(testLookup()).Produce(req, Context{}).OGRS3
		require.Len(t, out.ValidationErrors, 1)
		assert.Equal(t, validation.NoMatchingInput, out.ValidationErrors[0].Type)
		assert.Contains(t, out.ValidationErrors[0].Message, "offence code not found")
		assert.Equal(t, []string{"currentOffenceCode"}, out.ValidationErrors[0].Fields)
		assert.Nil(t, out.OneYear)
	})

	t.Run("follow up starts before age ten", func(t *testing.T) {
		req := scenarioOneRequest()
		req.DateOfBirth = date(2000, time.January, 1)
		req.DateOfCurrentConviction = date(2012, time.January, 1)
		req.AgeAtFirstSanction = types.Ptr(11)
		req.DateAtStartOfFollowup = date(2009, time.June, 1)

		out := NewOGRS3(testLookup()).Produce(req, Context{}).OGRS3
		require.Len(t, out.ValidationErrors, 1)
		assert.Equal(t, validation.NoMatchingInput, out.ValidationErrors[0].Type)
		assert.Equal(t, []string{"dateOfBirth", "dateAtStartOfFollowup"}, out.ValidationErrors[0].Fields)
	})
}

func TestOGRS3_OnlyWritesOwnSlot(t *testing.T) {
	upstream := Context{}.WithOVP(OVPOutput{ValidationErrors: noErrors()})

	rc := NewOGRS3(testLookup()).Produce(scenarioOneRequest(), upstream)

	assert.NotNil(t, rc.OGRS3)
	assert.Same(t, upstream.OVP, rc.OVP)
	assert.Nil(t, upstream.OGRS3, "the input context is not modified")
}

func TestOGRS3_FemaleScoresLowerThanMale(t *testing.T) {
	female := scenarioOneRequest()
	female.Gender = types.Ptr(types.Female)

	male := NewOGRS3(testLookup()).Produce(scenarioOneRequest(), Context{}).OGRS3
	fem := NewOGRS3(testLookup()).Produce(female, Context{}).OGRS3

	require.NotNil(t, fem.TwoYear)
	assert.Less(t, *fem.TwoYear, *male.TwoYear)
}
