package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type suspendRequest struct {
	Duration string `json:"duration" binding:"required" validate:"required,is-suspension-duration"`
	Reason   string `json:"reason" validate:"required,notblank"`
}

type bookingRequest struct {
	Date string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	Time string `json:"booking_time" validate:"required,is-time-of-day"`
	Role string `json:"role" validate:"omitempty,is-signup-role"`
}

func TestValidate_CustomRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&suspendRequest{Duration: "7_days", Reason: "spam"}))

	err := v.Validate(&suspendRequest{Duration: "3_days", Reason: "   "})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "duration")
	assert.Equal(t, "Must not be blank", vErr.Errors["reason"])
}

func TestValidate_BookingFields(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&bookingRequest{Date: "2024-05-01", Time: "14:30"}))

	err := v.Validate(&bookingRequest{Date: "01.05.2024", Time: "25:00", Role: "admin"})
	require.Error(t, err)
	vErr := err.(*ValidationError)
	assert.Len(t, vErr.Errors, 3)
	assert.Contains(t, vErr.Errors, "booking_date")
	assert.Equal(t, "Must be a time in HH:MM format", vErr.Errors["booking_time"])
	assert.Equal(t, "Must be one of: student, agent", vErr.Errors["role"])
}

func TestVar(t *testing.T) {
	v := New()
	assert.NoError(t, v.Var("duration", "indefinite", "is-suspension-duration"))

	err := v.Var("duration", "forever", "is-suspension-duration")
	require.Error(t, err)
	assert.Contains(t, err.(*ValidationError).Errors, "duration")
}

func TestValidationError_MessageIsStable(t *testing.T) {
	e := &ValidationError{Errors: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "Validation failed: field 'a': one; field 'b': two", e.Error())
}
