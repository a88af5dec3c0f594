package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var march2026 = func() time.Time { return time.Date(2026, time.March, 15, 9, 30, 0, 0, time.UTC) }

func TestValidator_Check(t *testing.T) {
	v := NewValidator(march2026)

	tests := []struct {
		name      string
		field     string
		value     string
		wantState FieldState
		wantMsg   string
	}{
		{"required blank", FieldFullName, "", StateInvalid, "Full Name is required."},
		{"required whitespace", FieldPhone, "   ", StateInvalid, "Phone Number is required."},
		{"required ok", FieldCity, "Pune", StateValid, ""},
		{"card name required", FieldCardName, "", StateInvalid, "Cardholder Name is required."},
		{"card number blank", FieldCardNumber, "", StateInvalid, "Card Number is required."},
		{"card number short", FieldCardNumber, "123", StateInvalid, "Enter a valid card number."},
		{"card number letters", FieldCardNumber, "4111abcd11111111", StateInvalid, "Enter a valid card number."},
		{"card number 13", FieldCardNumber, "4111111111111", StateValid, ""},
		{"card number 16", FieldCardNumber, "4111111111111111", StateValid, ""},
		{"card number 17", FieldCardNumber, "41111111111111111", StateInvalid, "Enter a valid card number."},
		{"expiry bad month", FieldExpiryDate, "13/30", StateInvalid, "Enter a valid date in MM/YY format."},
		{"expiry bad format", FieldExpiryDate, "1/30", StateInvalid, "Enter a valid date in MM/YY format."},
		{"expiry without slash", FieldExpiryDate, "1230", StateValid, ""},
		{"expiry past", FieldExpiryDate, "01/20", StateInvalid, "Card has expired."},
		{"expiry last month", FieldExpiryDate, "02/26", StateInvalid, "Card has expired."},
		{"expiry current month", FieldExpiryDate, "03/26", StateValid, ""},
		{"expiry future", FieldExpiryDate, "11/29", StateValid, ""},
		{"cvv short", FieldCVV, "12", StateInvalid, "Enter a valid 3 or 4 digit CVV."},
		{"cvv 3", FieldCVV, "123", StateValid, ""},
		{"cvv 4", FieldCVV, "1234", StateValid, ""},
		{"cvv 5", FieldCVV, "12345", StateInvalid, "Enter a valid 3 or 4 digit CVV."},
		{"unknown field", "nickname", "", StateValid, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, msg := v.Check(tt.field, tt.value)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestExpired_CutoffIsStartOfLastDay(t *testing.T) {
	dayBefore := time.Date(2026, time.February, 27, 23, 59, 0, 0, time.UTC)
	midnight := time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)
	noon := time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC)

	assert.False(t, expired("02/26", dayBefore))
	assert.False(t, expired("02/26", midnight))
	assert.True(t, expired("02/26", noon))
}

func TestExpired_LeapYear(t *testing.T) {
	assert.False(t, expired("02/28", time.Date(2028, time.February, 28, 12, 0, 0, 0, time.UTC)))
	assert.True(t, expired("02/28", time.Date(2028, time.February, 29, 12, 0, 0, 0, time.UTC)))
}

func TestForm_StateMachine(t *testing.T) {
	f := NewValidator(march2026).NewForm(PaymentCard)

	assert.Equal(t, StateUntouched, f.State(FieldCVV))

	assert.Equal(t, StateInvalid, f.Input(FieldCVV, "1"))
	assert.Equal(t, "Enter a valid 3 or 4 digit CVV.", f.Message(FieldCVV))

	assert.Equal(t, StateValid, f.Input(FieldCVV, "123"))
	assert.Empty(t, f.Message(FieldCVV))

	// Other fields are not touched by input on one field.
	assert.Equal(t, StateUntouched, f.State(FieldFullName))
}

func TestForm_ValidateSkipsCardFieldsForOtherMethods(t *testing.T) {
	f := NewValidator(march2026).NewForm("paypal")
	for _, field := range []string{FieldFullName, FieldAddress1, FieldCity, FieldRegion, FieldPostalCode, FieldCountry, FieldPhone} {
		f.Input(field, "x")
	}

	assert.Equal(t, map[string]string{FieldCardName: "Cardholder Name is required."}, f.Validate())

	f.Input(FieldCardName, "Asha Rao")
	assert.Empty(t, f.Validate())
	assert.True(t, f.Applies(FieldCardName))
	assert.False(t, f.Applies(FieldCardNumber))
	assert.Equal(t, StateUntouched, f.State(FieldCardNumber))
}

func TestForm_ValidateReportsEveryInvalidField(t *testing.T) {
	f := NewValidator(march2026).NewForm(PaymentCard)

	errs := f.Validate()

	assert.Len(t, errs, len(rules))
	assert.Equal(t, "Full Name is required.", errs[FieldFullName])
	assert.Equal(t, "CVV is required.", errs[FieldCVV])
	for _, r := range rules {
		assert.Equal(t, StateInvalid, f.State(r.field))
	}
}
