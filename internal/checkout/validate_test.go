package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/cart"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/shipping"
)

const testPhone = "(304) 649-5765"

func newTestValidator() *Validator {
	return NewValidator("WV", testPhone)
}

func firearmSummary() cart.Summary {
	return cart.Summary{
		ItemCount:          1,
		Subtotal:           49999,
		HasFirearms:        true,
		FulfillmentOptions: []cart.FulfillmentOption{cart.OptionPickup},
	}
}

func TestValidateFirearmAgreement(t *testing.T) {
	assert.NotEmpty(t, ValidateFirearmAgreement(false, true))
	assert.Empty(t, ValidateFirearmAgreement(true, true))
	assert.Empty(t, ValidateFirearmAgreement(false, false), "no firearms, no agreement needed")
}

func TestValidateStateRestriction(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.ValidateStateRestriction("WV", true))
	assert.Nil(t, v.ValidateStateRestriction("wv", true))
	assert.Nil(t, v.ValidateStateRestriction("OH", false), "no firearm, no restriction")

	err := v.ValidateStateRestriction("OH", true)
	require.NotNil(t, err)
	assert.Equal(t, RuleStateRestriction, err.Kind)
	assert.Contains(t, err.Message, testPhone)

	// Fails closed on garbage input.
	assert.NotNil(t, v.ValidateStateRestriction("", true))
	assert.NotNil(t, v.ValidateStateRestriction("ZZ", true))
}

func TestValidateLongGunState(t *testing.T) {
	v := newTestValidator()

	assert.Nil(t, v.ValidateLongGunState("WV"))
	for _, state := range []string{"OH", "PA", "MD", "VA", "KY"} {
		assert.Nil(t, v.ValidateLongGunState(state), state)
	}

	err := v.ValidateLongGunState("CA")
	require.NotNil(t, err)
	assert.Equal(t, RuleLongGunState, err.Kind)
	assert.Contains(t, err.Message, "FFL transfer")
	assert.Contains(t, err.Message, testPhone)

	assert.NotNil(t, v.ValidateLongGunState("NC"), "regional but not contiguous")
}

func TestValidateCascadeOrder(t *testing.T) {
	v := newTestValidator()

	// Schema failures come first even when regulatory rules would also fail.
	f := FormData{Fulfillment: shipping.Ship, State: "CA"}
	err := v.Validate(f, firearmSummary())
	require.NotNil(t, err)
	assert.Equal(t, RuleSchema, err.Kind)

	// Schema ok, agreement missing.
	f = validShipForm()
	err = v.Validate(f, firearmSummary())
	require.NotNil(t, err)
	assert.Equal(t, RuleFirearmAgreement, err.Kind)

	// Agreement given, shipping out of state.
	f.ReserveAgree = true
	f.State = "CA"
	err = v.Validate(f, firearmSummary())
	require.NotNil(t, err)
	assert.Equal(t, RuleStateRestriction, err.Kind)

	// In state: the whole cascade passes.
	f.State = "WV"
	assert.Nil(t, v.Validate(f, firearmSummary()))
}

func TestValidatePassesForPlainCart(t *testing.T) {
	v := newTestValidator()
	summary := cart.Summary{ItemCount: 1, Subtotal: 2500, HasShippableItems: true}

	assert.Nil(t, v.Validate(validShipForm(), summary))
	assert.Nil(t, v.Validate(validPickupForm(), summary))

	// State checks never run for non-firearm carts.
	f := validShipForm()
	f.State = "CA"
	assert.Nil(t, v.Validate(f, summary))
}

func TestValidateFirearmPickupSkipsStateChecks(t *testing.T) {
	v := newTestValidator()
	f := validPickupForm()
	f.ReserveAgree = true
	assert.Nil(t, v.Validate(f, firearmSummary()))
}
