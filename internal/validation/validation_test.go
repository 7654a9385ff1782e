package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/types"
)

func TestRequireFields_BatchesIntoOneError(t *testing.T) {
	req := &types.RiskScoreRequest{Gender: types.Ptr(types.Male)}

	err := RequireFields(req, "Mandatory input field(s) missing",
		types.FieldGender, types.FieldDateOfBirth, types.FieldTotalNumberOfSanctions)

	require.NotNil(t, err)
	assert.Equal(t, MissingInput, err.Type)
	assert.Equal(t, []string{"dateOfBirth", "totalNumberOfSanctions"}, err.Fields)
}

func TestRequireFields_NothingMissing(t *testing.T) {
	req := &types.RiskScoreRequest{Gender: types.Ptr(types.Male)}
	assert.Nil(t, RequireFields(req, "missing", types.FieldGender))
}

func TestCheckOffenceCode(t *testing.T) {
	tests := []struct {
		name    string
		code    *string
		wantErr bool
	}{
		{"absent is not a format error", nil, false},
		{"five characters", types.Ptr("05110"), false},
		{"too short", types.Ptr("0511"), true},
		{"too long", types.Ptr("051100"), true},
		{"empty", types.Ptr(""), true},
		{"five characters with a multibyte rune", types.Ptr("é1234"), false},
		{"four characters in five bytes", types.Ptr("é123"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckOffenceCode(&types.RiskScoreRequest{CurrentOffenceCode: tt.code})
			if !tt.wantErr {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, InvalidFormat, err.Type)
			assert.Equal(t, []string{"currentOffenceCode"}, err.Fields)
		})
	}
}

func TestErrors_PreservesOrderAndSkipsNil(t *testing.T) {
	var errs Errors
	errs.Add(nil)
	errs.Append(New(BelowMinValue, "first", types.FieldTotalNumberOfSanctions))
	errs.Add(&Error{Type: InconsistentInput, Message: "second"})
	errs.Append(New(BelowMinValue, "first", types.FieldTotalNumberOfSanctions))

	list := errs.List()
	require.Len(t, list, 3)
	assert.Equal(t, "first", list[0].Message)
	assert.Equal(t, "second", list[1].Message)
	assert.Equal(t, list[0], list[2], "errors are never deduplicated")
}

func TestErrors_ListNeverNil(t *testing.T) {
	var errs Errors
	assert.True(t, errs.Empty())

	b, err := json.Marshal(errs.List())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestError_JSONShape(t *testing.T) {
	b, err := json.Marshal(New(MissingInput, "missing", types.FieldGender))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"MISSING_INPUT","message":"missing","fields":["gender"]}`, string(b))
}
