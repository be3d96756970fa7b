package validation_test

import (
	"regexp"
	"testing"
	"time"

	errors "github.com/frahmantamala/contract-portal/internal"
	"github.com/frahmantamala/contract-portal/internal/core/common/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(t *testing.T, err *errors.AppError) []string {
	t.Helper()
	require.NotNil(t, err)
	details, ok := err.Details.(errors.ValidationErrors)
	require.True(t, ok, "expected field details")
	out := make([]string, 0, len(details.Errors))
	for _, e := range details.Errors {
		out = append(out, e.Field)
	}
	return out
}

func TestRequired(t *testing.T) {
	blank := "  "
	var nilTime *time.Time
	v := validation.NewValidator()
	v.Field("name", "").Required()
	v.Field("description", &blank).Required()
	v.Field("client_id", int64(0)).Required()
	v.Field("contract_date", time.Time{}).Required()
	v.Field("start_date", nilTime).Required()
	v.Field("ok", "value").Required()

	err := v.Validate()
	assert.Equal(t, []string{"name", "description", "client_id", "contract_date", "start_date"}, fields(t, err))
	assert.Equal(t, errors.ErrorTypeValidation, err.Type)
	assert.Equal(t, 400, err.StatusCode)
}

func TestFirstFailurePerField(t *testing.T) {
	v := validation.NewValidator()
	v.Field("name", "").Required().MinLength(3)

	details := v.Validate().Details.(errors.ValidationErrors)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "name is required", details.Errors[0].Message)
}

func TestOneOf(t *testing.T) {
	allowed := []string{"draft", "active"}

	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{"allowed", "draft", false},
		{"empty skipped", "", false},
		{"nil pointer skipped", (*string)(nil), false},
		{"rejected", "archived", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validation.NewValidator()
			v.Field("status", tt.value).OneOf(allowed, errors.ErrCodeInvalidStatus)
			err := v.Validate()
			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, string(errors.ErrCodeInvalidStatus), err.Details.(errors.ValidationErrors).Errors[0].Code)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestPatternAndEmail(t *testing.T) {
	pan := regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

	v := validation.NewValidator()
	v.Field("pan_number", "ABCDE1234F").Pattern(pan, "AAAAA9999A", errors.ErrCodeInvalidFormat)
	v.Field("email", "jane@example.com").Email()
	assert.Nil(t, v.Validate())

	v = validation.NewValidator()
	v.Field("pan_number", "abcde1234f").Pattern(pan, "AAAAA9999A", errors.ErrCodeInvalidFormat)
	v.Field("email", "Jane <jane@example.com>").Email()
	assert.Equal(t, []string{"pan_number", "email"}, fields(t, v.Validate()))
}

func TestNotBeforeAndNonNegative(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	negative := decimal.NewFromInt(-5)

	v := validation.NewValidator()
	v.Field("end_date", &end).NotBefore(&start, "start_date")
	v.Field("contract_value", &negative).NonNegative()
	assert.Equal(t, []string{"end_date", "contract_value"}, fields(t, v.Validate()))

	v = validation.NewValidator()
	v.Field("end_date", &end).NotBefore(nil, "start_date")
	v.Field("contract_value", decimal.Zero).NonNegative()
	assert.Nil(t, v.Validate())
}

func TestMinInt(t *testing.T) {
	zero, five := 0, 5
	v := validation.NewValidator()
	v.Field("limit", 0).MinInt(1, errors.ErrCodeInvalidValue)
	v.Field("line_number", &zero).MinInt(1, errors.ErrCodeInvalidValue)
	v.Field("assigned_employee_id", (*int64)(nil)).MinInt(1, errors.ErrCodeInvalidReference)
	v.Field("client_id", int64(7)).MinInt(1, errors.ErrCodeInvalidReference)
	v.Field("page", &five).MinInt(1, errors.ErrCodeInvalidValue)
	assert.Equal(t, []string{"limit", "line_number"}, fields(t, v.Validate()))
}

func TestParseDate(t *testing.T) {
	d, err := validation.ParseDate("contract_date", "2024-05-17")
	require.Nil(t, err)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), d)

	d, err = validation.ParseDate("contract_date", "2024-05-17T23:30:00Z")
	require.Nil(t, err)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), d)

	_, err = validation.ParseDate("contract_date", "17/05/2024")
	require.NotNil(t, err)
	assert.Equal(t, []string{"contract_date"}, fields(t, err))

	blank := " "
	p, err := validation.ParseOptionalDate("start_date", &blank)
	assert.Nil(t, err)
	assert.Nil(t, p)
}

func TestParseTimestampUpperBound(t *testing.T) {
	to, err := validation.ParseTimestamp("created_to", "2024-01-31", true)
	require.Nil(t, err)
	assert.True(t, to.After(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)))
	assert.True(t, to.Before(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))

	from, err := validation.ParseTimestamp("created_from", "2024-01-01", false)
	require.Nil(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
}
