package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/config"
)

func newTestCalculator() *Calculator {
	return NewCalculator(config.DefaultBusiness(), "WV")
}

func TestZone(t *testing.T) {
	c := newTestCalculator()

	assert.Equal(t, 1, c.Zone("WV"))
	assert.Equal(t, 1, c.Zone("oh"), "case-insensitive")
	assert.Equal(t, 2, c.Zone("KY"), "KY borders WV but ships at zone 2")
	assert.Equal(t, 2, c.Zone("NY"))
	assert.Equal(t, 3, c.Zone("CA"))
	assert.Equal(t, 3, c.Zone("XX"), "unknown states fall through to national")
}

func TestCalculateShipping(t *testing.T) {
	c := newTestCalculator()

	q := c.CalculateShipping("WV", 5000)
	assert.Equal(t, 899, q.Cost)
	assert.False(t, q.IsFree)
	assert.Equal(t, 1, q.Zone)
	assert.Equal(t, "Regional shipping", q.Description)
	assert.Equal(t, "3-5 business days", q.EstimatedDays)

	q = c.CalculateShipping("KY", 5000)
	assert.Equal(t, 1199, q.Cost)
	assert.Equal(t, "5-7 business days", q.EstimatedDays)

	q = c.CalculateShipping("CA", 5000)
	assert.Equal(t, 1499, q.Cost)
	assert.Equal(t, "Standard shipping", q.Description)
	assert.Equal(t, "7-10 business days", q.EstimatedDays)
}

func TestFreeShippingThreshold(t *testing.T) {
	c := newTestCalculator()

	q := c.CalculateShipping("CA", 7500)
	assert.True(t, q.IsFree)
	assert.Equal(t, 0, q.Cost)
	assert.Equal(t, 3, q.Zone, "zone still reported when free")

	q = c.CalculateShipping("WV", 7499)
	assert.False(t, q.IsFree)
	assert.Equal(t, 899, q.Cost)
}

func TestAmountForFreeShipping(t *testing.T) {
	c := newTestCalculator()
	assert.Equal(t, 2500, c.AmountForFreeShipping(5000))
	assert.Equal(t, 0, c.AmountForFreeShipping(7500))
	assert.Equal(t, 0, c.AmountForFreeShipping(9000))
}

func TestCalculateTaxDispatch(t *testing.T) {
	c := newTestCalculator()

	// Pickup is always taxed at the home state's rate regardless of where
	// the customer lives.
	assert.Equal(t, 300, c.CalculateTax(5000, "CA", Pickup))
	assert.Equal(t, 300, c.CalculateTax(5000, "", Pickup))

	// Shipping taxes at the destination only where the store has nexus.
	assert.Equal(t, 300, c.CalculateTax(5000, "WV", Ship))
	assert.Equal(t, 0, c.CalculateTax(5000, "OH", Ship))
	assert.Equal(t, 0, c.CalculateTax(5000, "CA", Ship))
}

func TestCalculateTaxRounding(t *testing.T) {
	c := newTestCalculator()
	// 6% of $1.25 is 7.5 cents; rounds to 8.
	assert.Equal(t, 8, c.CalculateTax(125, "WV", Ship))
}

// A WV customer ships two $25 items: $50.00 subtotal, $8.99 zone 1
// shipping, $3.00 tax, $61.99 total.
func TestInStateShippingOrderTotals(t *testing.T) {
	c := newTestCalculator()
	subtotal := 2 * 2500

	q := c.CalculateShipping("WV", subtotal)
	tax := c.CalculateTax(subtotal, "WV", Ship)

	assert.Equal(t, 899, q.Cost)
	assert.Equal(t, 300, tax)
	assert.Equal(t, 6199, subtotal+q.Cost+tax)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "FREE", FormatPrice(0))
	assert.Equal(t, "$8.99", FormatPrice(899))
	assert.Equal(t, "$61.99", FormatPrice(6199))
}
