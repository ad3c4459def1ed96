package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/shipping"
)

func validPickupForm() FormData {
	return FormData{
		FirstName:   "Dale",
		LastName:    "Mullins",
		Email:       "dale@example.com",
		Phone:       "(304) 555-1234",
		Fulfillment: shipping.Pickup,
	}
}

func validShipForm() FormData {
	f := validPickupForm()
	f.Fulfillment = shipping.Ship
	f.Street = "123 River Rd"
	f.City = "Birch River"
	f.State = "WV"
	f.Zip = "26610"
	return f
}

func fieldsOf(errs []FieldError) []string {
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	return fields
}

func TestValidateFormPickup(t *testing.T) {
	assert.Empty(t, ValidateForm(validPickupForm()))
}

func TestValidateFormCollectsAllFailures(t *testing.T) {
	errs := ValidateForm(FormData{})
	fields := fieldsOf(errs)
	assert.Contains(t, fields, "firstName")
	assert.Contains(t, fields, "lastName")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "fulfillment")
	// Address errors only appear once shipping is chosen.
	assert.NotContains(t, fields, "street")
}

func TestValidateFormShippingAddress(t *testing.T) {
	f := validShipForm()
	assert.Empty(t, ValidateForm(f))

	f.Street = "abc"
	f.Zip = "123"
	errs := ValidateForm(f)
	fields := fieldsOf(errs)
	assert.Contains(t, fields, "street")
	assert.Contains(t, fields, "zip")
}

func TestValidateFormFormats(t *testing.T) {
	f := validPickupForm()

	f.Email = "not-an-email"
	errs := ValidateForm(f)
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "That email doesn't look quite right. Mind checking it?", errs[0].Message)

	f = validPickupForm()
	f.Phone = "55512"
	errs = ValidateForm(f)
	require.Len(t, errs, 1)
	assert.Equal(t, "phone", errs[0].Field)
}

func TestPhoneFormats(t *testing.T) {
	for _, phone := range []string{"(304) 555-1234", "304-555-1234", "3045551234", "+1 304 555 1234", "304.555.1234"} {
		f := validPickupForm()
		f.Phone = phone
		assert.Empty(t, ValidateForm(f), phone)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "3045551234", NormalizePhone("(304) 555-1234"))
	assert.Equal(t, "3045551234", NormalizePhone("+1 304 555 1234"))
	assert.Equal(t, "3045551234", NormalizePhone("3045551234"))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "(304) 555-1234", FormatPhone("3045551234"))
	assert.Equal(t, "(304) 555-1234", FormatPhone("+1 304 555 1234"))
	assert.Equal(t, "555-12", FormatPhone("555-12"), "non-10-digit input comes back unchanged")
}
