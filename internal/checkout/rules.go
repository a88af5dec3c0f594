package checkout

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// PaymentCard is the payment method that makes the card fields applicable.
const PaymentCard = "card"

// Field names as submitted by the checkout form.
const (
	FieldFullName   = "fullName"
	FieldAddress1   = "address1"
	FieldCity       = "city"
	FieldRegion     = "state"
	FieldPostalCode = "postalCode"
	FieldCountry    = "country"
	FieldPhone      = "phone"
	FieldCardName   = "cardName"
	FieldCardNumber = "cardNumber"
	FieldExpiryDate = "expiryDate"
	FieldCVV        = "cvv"
)

const msgExpired = "Card has expired."

// rule describes how one field is checked: required first, then the optional
// format tag, then card expiry.
type rule struct {
	field     string
	label     string
	cardOnly  bool
	formatTag string
	formatMsg string
	expiry    bool
}

var rules = []rule{
	{field: FieldFullName, label: "Full Name"},
	{field: FieldAddress1, label: "Address"},
	{field: FieldCity, label: "City"},
	{field: FieldRegion, label: "State"},
	{field: FieldPostalCode, label: "Postal Code"},
	{field: FieldCountry, label: "Country"},
	{field: FieldPhone, label: "Phone Number"},
	{field: FieldCardName, label: "Cardholder Name"},
	{field: FieldCardNumber, label: "Card Number", cardOnly: true,
		formatTag: "cardnumber", formatMsg: "Enter a valid card number."},
	{field: FieldExpiryDate, label: "Expiry Date", cardOnly: true,
		formatTag: "expiry", formatMsg: "Enter a valid date in MM/YY format.", expiry: true},
	{field: FieldCVV, label: "CVV", cardOnly: true,
		formatTag: "cvv", formatMsg: "Enter a valid 3 or 4 digit CVV."},
}

func ruleFor(field string) (rule, bool) {
	for _, r := range rules {
		if r.field == field {
			return r, true
		}
	}
	return rule{}, false
}

var (
	cardNumberPattern = regexp.MustCompile(`^[0-9]{13,16}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/?([0-9]{2})$`)
	cvvPattern        = regexp.MustCompile(`^[0-9]{3,4}$`)
)

// newValidate registers the checkout tags. notexpired reads the date from now.
func newValidate(now func() time.Time) *validator.Validate {
	v := validator.New()
	pattern := func(re *regexp.Regexp) validator.Func {
		return func(fl validator.FieldLevel) bool { return re.MatchString(fl.Field().String()) }
	}
	_ = v.RegisterValidation("cardnumber", pattern(cardNumberPattern))
	_ = v.RegisterValidation("expiry", pattern(expiryPattern))
	_ = v.RegisterValidation("cvv", pattern(cvvPattern))
	_ = v.RegisterValidation("notexpired", func(fl validator.FieldLevel) bool {
		return !expired(fl.Field().String(), now())
	})
	return v
}

// expired reports whether an MM/YY (or MMYY) expiry lies in the past: the
// start of the last day of the expiry month (year 20YY) is before now.
func expired(value string, now time.Time) bool {
	m := expiryPattern.FindStringSubmatch(value)
	if m == nil {
		return false
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])

	lastDay := time.Date(2000+year, time.Month(month)+1, 0, 0, 0, 0, 0, now.Location())
	return lastDay.Before(now)
}

// check runs r against value and returns the first failure message, or "".
func check(v *validator.Validate, r rule, value string) string {
	if v.Var(strings.TrimSpace(value), "required") != nil {
		return r.label + " is required."
	}
	if r.formatTag != "" && v.Var(value, r.formatTag) != nil {
		return r.formatMsg
	}
	if r.expiry && v.Var(value, "notexpired") != nil {
		return msgExpired
	}
	return ""
}
