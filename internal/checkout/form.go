// Package checkout validates checkout input and decides how far along the
// flow an order is. Validation order matters: schema first, then the
// regulatory rules, each of which can veto the order outright.
package checkout

import (
	"regexp"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/shipping"
)

// FormData is the checkout form as submitted. Which fields are required
// depends on the cart: the address only when shipping, the reserve
// agreement only when the cart holds firearms.
type FormData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	Fulfillment shipping.FulfillmentMethod `json:"fulfillment"`

	Street string `json:"street,omitempty"`
	Apt    string `json:"apt,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`

	ReserveAgree bool `json:"reserveAgree,omitempty"`
}

// FieldError is a single field-scoped validation failure. Messages are
// user-facing and written in the store's voice.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	// Accepts (304) 555-1234, 304-555-1234, 3045551234, +1 304 555 1234.
	phonePattern = regexp.MustCompile(`^(\+1)?[\s.-]?\(?[0-9]{3}\)?[\s.-]?[0-9]{3}[\s.-]?[0-9]{4}$`)
	zipPattern   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateForm runs schema-level validation: required fields, formats,
// and the conditionally required shipping address. It returns every
// failing field so unrelated fields can be corrected together.
func ValidateForm(f FormData) []FieldError {
	var errs []FieldError

	if len(f.FirstName) < 2 {
		errs = append(errs, FieldError{"firstName", "We need your first name to process your order."})
	} else if len(f.FirstName) > 50 {
		errs = append(errs, FieldError{"firstName", "First name is too long."})
	}
	if len(f.LastName) < 2 {
		errs = append(errs, FieldError{"lastName", "We need your last name to process your order."})
	} else if len(f.LastName) > 50 {
		errs = append(errs, FieldError{"lastName", "Last name is too long."})
	}
	if f.Email == "" {
		errs = append(errs, FieldError{"email", "We'll need your email to send the confirmation."})
	} else if !emailPattern.MatchString(f.Email) {
		errs = append(errs, FieldError{"email", "That email doesn't look quite right. Mind checking it?"})
	}
	if f.Phone == "" {
		errs = append(errs, FieldError{"phone", "We'll need your phone number to call when it's ready."})
	} else if !phonePattern.MatchString(f.Phone) {
		errs = append(errs, FieldError{"phone", "That phone number doesn't look right. Try (304) 555-1234."})
	}

	switch f.Fulfillment {
	case shipping.Ship, shipping.Pickup:
	default:
		errs = append(errs, FieldError{"fulfillment", "Please choose how you'd like to receive your order."})
	}

	if f.Fulfillment == shipping.Ship {
		if len(f.Street) < 5 {
			errs = append(errs, FieldError{"street", "Where should we ship this?"})
		}
		if len(f.City) < 2 {
			errs = append(errs, FieldError{"city", "Please enter your city."})
		}
		if len(f.State) != 2 {
			errs = append(errs, FieldError{"state", "Please select a state."})
		}
		if !zipPattern.MatchString(f.Zip) {
			errs = append(errs, FieldError{"zip", "That ZIP code doesn't look right. Should be 5 digits."})
		}
	}

	return errs
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone reduces a phone number to its 10-digit US local form for
// submission to the payment processor.
func NormalizePhone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

// FormatPhone renders a phone number as (XXX) XXX-XXXX for display;
// anything that isn't 10 digits comes back unchanged.
func FormatPhone(phone string) string {
	digits := NormalizePhone(phone)
	if len(digits) != 10 {
		return phone
	}
	return "(" + digits[0:3] + ") " + digits[3:6] + "-" + digits[6:]
}
