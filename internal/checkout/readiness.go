package checkout

import (
	"github.com/wvwildoutdoors/wvwo-commerce/internal/cart"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/shipping"
)

// Readiness names how far along checkout an order is. It replaces the
// old ad-hoc interaction of hasFirearms/fulfillment/reserveAgree flags
// with one variant the UI and tests can branch on.
type Readiness string

const (
	// NeedsContact: contact fields are missing or malformed.
	NeedsContact Readiness = "needs_contact"
	// NeedsFulfillmentChoice: ship vs pickup not chosen yet.
	NeedsFulfillmentChoice Readiness = "needs_fulfillment_choice"
	// NeedsAddress: shipping chosen but the address is incomplete.
	NeedsAddress Readiness = "needs_address"
	// NeedsFirearmAgreement: cart holds firearms and the reserve terms
	// haven't been confirmed.
	NeedsFirearmAgreement Readiness = "needs_firearm_agreement"
	// ReadyForPayment: everything checks out; a payment session may be
	// created.
	ReadyForPayment Readiness = "ready_for_payment"
	// ReserveOnly: a firearm order ready to submit. No payment session is
	// created; payment is replaced by a call-to-reserve instruction.
	ReserveOnly Readiness = "reserve_only"
)

// EvaluateReadiness is the pure transition function for the checkout
// state machine. Given the form as currently filled and the cart summary,
// it returns the single state the flow is in. Earlier needs win: a form
// with no contact info and no address is NeedsContact, not NeedsAddress.
func EvaluateReadiness(f FormData, summary cart.Summary) Readiness {
	if contactIncomplete(f) {
		return NeedsContact
	}

	if f.Fulfillment != shipping.Ship && f.Fulfillment != shipping.Pickup {
		return NeedsFulfillmentChoice
	}

	if summary.HasFirearms && !f.ReserveAgree {
		return NeedsFirearmAgreement
	}

	if f.Fulfillment == shipping.Ship && addressIncomplete(f) {
		return NeedsAddress
	}

	if summary.HasFirearms {
		return ReserveOnly
	}
	return ReadyForPayment
}

func contactIncomplete(f FormData) bool {
	return len(f.FirstName) < 2 || len(f.LastName) < 2 ||
		!emailPattern.MatchString(f.Email) || !phonePattern.MatchString(f.Phone)
}

func addressIncomplete(f FormData) bool {
	return len(f.Street) < 5 || len(f.City) < 2 || len(f.State) != 2 || !zipPattern.MatchString(f.Zip)
}
