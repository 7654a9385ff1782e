package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/validation"
)

func TestSexualHistoryRules_CountsWithoutHistory(t *testing.T) {
	setters := map[types.Field]func(r *types.RiskScoreRequest){
		types.FieldTotalContactAdultSexualSanctions: func(r *types.RiskScoreRequest) { r.TotalContactAdultSexualSanctions = types.Ptr(1) },
		types.FieldTotalContactChildSexualSanctions: func(r *types.RiskScoreRequest) { r.TotalContactChildSexualSanctions = types.Ptr(0) },
		types.FieldTotalIndecentImageSanctions:      func(r *types.RiskScoreRequest) { r.TotalIndecentImageSanctions = types.Ptr(2) },
		types.FieldTotalNonContactSexualOffences:    func(r *types.RiskScoreRequest) { r.TotalNonContactSexualOffences = types.Ptr(3) },
	}

	// Every non-empty subset of the four counts.
	for mask := 1; mask < 1<<len(sexualCountFields); mask++ {
		req := fullRequest()
		var populated []string
		for i, f := range sexualCountFields {
			if mask&(1<<i) != 0 {
				setters[f](req)
				populated = append(populated, string(f))
			}
		}

		errs := sexualHistoryRules(req)

		require.Len(t, errs, 1, "mask %04b", mask)
		assert.Equal(t, validation.InconsistentInput, errs[0].Type)
		assert.Equal(t, populated, errs[0].Fields, "mask %04b", mask)
	}
}

func TestSexualHistoryRules(t *testing.T) {
	tests := []struct {
		name     string
		req      func() *types.RiskScoreRequest
		expected []validation.ErrorType
	}{
		{
			name: "female subject skips the rules",
			req: func() *types.RiskScoreRequest {
				r := fullRequest()
				r.Gender = types.Ptr(types.Female)
				r.HasEverCommittedSexualOffence = nil
				return r
			},
		},
		{
			name: "male without flag",
			req: func() *types.RiskScoreRequest {
				r := fullRequest()
				r.HasEverCommittedSexualOffence = nil
				return r
			},
			expected: []validation.ErrorType{validation.MissingInput},
		},
		{
			name:     "no history and no counts",
			req:      fullRequest,
			expected: nil,
		},
		{
			name:     "history with counts",
			req:      func() *types.RiskScoreRequest { return withSexualHistory(fullRequest(), 1, 0, 0, 0) },
			expected: nil,
		},
		{
			name: "history with missing counts",
			req: func() *types.RiskScoreRequest {
				r := withSexualHistory(fullRequest(), 1, 0, 0, 0)
				r.TotalIndecentImageSanctions = nil
				return r
			},
			expected: []validation.ErrorType{validation.MissingInput},
		},
		{
			name:     "history with all counts zero",
			req:      func() *types.RiskScoreRequest { return withSexualHistory(fullRequest(), 0, 0, 0, 0) },
			expected: []validation.ErrorType{validation.InconsistentInput},
		},
		{
			name:     "history with negative count",
			req:      func() *types.RiskScoreRequest { return withSexualHistory(fullRequest(), -1, 2, 0, 0) },
			expected: []validation.ErrorType{validation.BelowMinValue},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := sexualHistoryRules(tt.req())

			var got []validation.ErrorType
			for _, e := range errs {
				got = append(got, e.Type)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestViolentHistoryRules(t *testing.T) {
	req := fullRequest()
	req.TotalNumberOfViolentSanctions = types.Ptr(-1)

	errs := violentHistoryRules(req)
	require.Len(t, errs, 1)
	assert.Equal(t, validation.BelowMinValue, errs[0].Type)

	req.TotalNumberOfViolentSanctions = types.Ptr(10)
	assert.Empty(t, violentHistoryRules(req))
}

func TestDomesticAbusePerpetrator(t *testing.T) {
	tests := []struct {
		name        string
		evidence    *bool
		partner     *bool
		family      *bool
		perpetrator bool
		known       bool
	}{
		{"unanswered", nil, nil, nil, false, false},
		{"no evidence", types.Ptr(false), nil, nil, false, true},
		{"evidence without victim type", types.Ptr(true), nil, nil, false, false},
		{"against partner", types.Ptr(true), types.Ptr(true), nil, true, true},
		{"against family", types.Ptr(true), types.Ptr(false), types.Ptr(true), true, true},
		{"evidence but neither victim", types.Ptr(true), types.Ptr(false), types.Ptr(false), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &types.RiskScoreRequest{
				EvidenceOfDomesticAbuse:     tt.evidence,
				DomesticAbuseAgainstPartner: tt.partner,
				DomesticAbuseAgainstFamily:  tt.family,
			}
			perpetrator, known := domesticAbusePerpetrator(req)
			assert.Equal(t, tt.perpetrator, perpetrator)
			assert.Equal(t, tt.known, known)
		})
	}
}
