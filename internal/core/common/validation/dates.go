package validation

import (
	"fmt"
	"strings"
	"time"

	errors "github.com/frahmantamala/contract-portal/internal"
)

const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or RFC 3339 and returns the UTC calendar date.
func ParseDate(field, value string) (time.Time, *errors.AppError) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		y, m, d := t.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, errors.NewValidationFieldError(field,
		fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field), errors.ErrCodeInvalidDate)
}

// ParseOptionalDate returns nil for a nil or blank input.
func ParseOptionalDate(field string, value *string) (*time.Time, *errors.AppError) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseTimestamp accepts RFC 3339 or a bare date. A bare date used as an upper
// bound covers the whole day.
func ParseTimestamp(field, value string, upperBound bool) (time.Time, *errors.AppError) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		if upperBound {
			return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
		}
		return t, nil
	}
	return time.Time{}, errors.NewValidationFieldError(field,
		fmt.Sprintf("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", field), errors.ErrCodeInvalidDate)
}
