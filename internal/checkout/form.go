package checkout

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldState is the per-field validation state.
type FieldState string

const (
	StateUntouched FieldState = "untouched"
	StateValid     FieldState = "valid"
	StateInvalid   FieldState = "invalid"
)

// Validator evaluates the checkout field rules against a clock.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator. now supplies the date used for expiry
// checks; nil means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{validate: newValidate(now)}
}

// Known reports whether field has a rule.
func (v *Validator) Known(field string) bool {
	_, ok := ruleFor(field)
	return ok
}

// Check evaluates one field and returns the resulting state and message.
// Fields without a rule are always valid.
func (v *Validator) Check(field, value string) (FieldState, string) {
	r, ok := ruleFor(field)
	if !ok {
		return StateValid, ""
	}
	if msg := check(v.validate, r, value); msg != "" {
		return StateInvalid, msg
	}
	return StateValid, ""
}

// Form tracks the state of every field of one checkout attempt.
type Form struct {
	v        *Validator
	method   string
	values   map[string]string
	states   map[string]FieldState
	messages map[string]string
}

// NewForm starts a form with every field untouched.
func (v *Validator) NewForm(paymentMethod string) *Form {
	return &Form{
		v:        v,
		method:   paymentMethod,
		values:   make(map[string]string),
		states:   make(map[string]FieldState),
		messages: make(map[string]string),
	}
}

// Input records a new value for field and re-evaluates only that field.
func (f *Form) Input(field, value string) FieldState {
	f.values[field] = value
	state, msg := f.v.Check(field, value)
	f.states[field] = state
	if msg == "" {
		delete(f.messages, field)
	} else {
		f.messages[field] = msg
	}
	return state
}

// State returns the field's current state.
func (f *Form) State(field string) FieldState {
	if s, ok := f.states[field]; ok {
		return s
	}
	return StateUntouched
}

// Message returns the field's current error message, if any.
func (f *Form) Message(field string) string {
	return f.messages[field]
}

// Applies reports whether field takes part in submission for the form's
// payment method.
func (f *Form) Applies(field string) bool {
	r, ok := ruleFor(field)
	return ok && (!r.cardOnly || f.method == PaymentCard)
}

// Validate evaluates every applicable field and returns one message per
// invalid field. An empty map means the form may be submitted.
func (f *Form) Validate() map[string]string {
	errs := make(map[string]string)
	for _, r := range rules {
		if !f.Applies(r.field) {
			continue
		}
		if f.Input(r.field, f.values[r.field]) == StateInvalid {
			errs[r.field] = f.messages[r.field]
		}
	}
	return errs
}
