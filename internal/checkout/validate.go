package checkout

import (
	"strings"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/cart"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/shipping"
)

// RuleKind classifies which check in the cascade failed.
type RuleKind string

const (
	RuleSchema           RuleKind = "schema"
	RuleFirearmAgreement RuleKind = "firearm_agreement"
	RuleStateRestriction RuleKind = "state_restriction"
	RuleLongGunState     RuleKind = "long_gun_state"
)

// RuleError is a veto from the ordered validation cascade. Regulatory
// failures always carry a phone fallback in the message.
type RuleError struct {
	Kind    RuleKind
	Field   string
	Message string
}

func (e *RuleError) Error() string { return e.Message }

// Validator holds the regulatory configuration for the cascade.
type Validator struct {
	// HomeState is the only state firearms may ship to under the federal
	// handgun rule surrogate.
	HomeState string
	// LongGunStates are the contiguous states long guns may ship to, in
	// addition to the home state.
	LongGunStates []string
	// StorePhone appears in every regulatory failure message.
	StorePhone string
}

// NewValidator returns a Validator with WVWO's current rule set: long-gun
// shipping to WV's bordering states only.
func NewValidator(homeState, storePhone string) *Validator {
	return &Validator{
		HomeState:     homeState,
		LongGunStates: []string{"OH", "PA", "MD", "VA", "KY"},
		StorePhone:    storePhone,
	}
}

// ValidateFirearmAgreement fails when the cart holds firearms and the
// customer hasn't confirmed the reserve terms. Empty string means pass.
func ValidateFirearmAgreement(reserveAgree, hasFirearms bool) string {
	if hasFirearms && !reserveAgree {
		return "Please confirm you understand the firearm reserve terms."
	}
	return ""
}

// ValidateStateRestriction is the federal-law surrogate for firearm
// shipments: permitted only to the home state. The trigger is the cart's
// general hasFirearms flag rather than handgun-specific data; when the
// catalog grows a firearmType field only the caller's trigger changes.
// Fails closed.
func (v *Validator) ValidateStateRestriction(stateCode string, firearmPresent bool) *RuleError {
	if !firearmPresent {
		return nil
	}
	if strings.ToUpper(stateCode) == v.HomeState {
		return nil
	}
	return &RuleError{
		Kind:    RuleStateRestriction,
		Field:   "state",
		Message: "Firearms can only ship within " + v.HomeState + ". Choose in-store pickup, or call us at " + v.StorePhone + ".",
	}
}

// ValidateLongGunState limits long-gun shipments to the home state and
// the enumerated contiguous states. Anywhere else, the customer is
// directed to call and arrange an FFL transfer.
func (v *Validator) ValidateLongGunState(stateCode string) *RuleError {
	state := strings.ToUpper(stateCode)
	if state == v.HomeState {
		return nil
	}
	for _, allowed := range v.LongGunStates {
		if state == allowed {
			return nil
		}
	}
	return &RuleError{
		Kind:    RuleLongGunState,
		Field:   "state",
		Message: "We can't ship long guns to " + state + ". Call us at " + v.StorePhone + " and we'll set up an FFL transfer near you.",
	}
}

// Validate runs the full ordered cascade against a submitted form and the
// current cart summary. It returns the first failing rule only; the form
// re-runs the cascade when fulfillment or state changes.
func (v *Validator) Validate(f FormData, summary cart.Summary) *RuleError {
	if errs := ValidateForm(f); len(errs) > 0 {
		return &RuleError{Kind: RuleSchema, Field: errs[0].Field, Message: errs[0].Message}
	}

	if msg := ValidateFirearmAgreement(f.ReserveAgree, summary.HasFirearms); msg != "" {
		return &RuleError{Kind: RuleFirearmAgreement, Field: "reserveAgree", Message: msg}
	}

	if f.Fulfillment == shipping.Ship && summary.HasFirearms {
		if err := v.ValidateStateRestriction(f.State, true); err != nil {
			return err
		}
		if err := v.ValidateLongGunState(f.State); err != nil {
			return err
		}
	}

	return nil
}
