package shipping

import (
	"math"
	"strings"
)

// FulfillmentMethod is how the customer receives the order.
type FulfillmentMethod string

const (
	Ship   FulfillmentMethod = "ship"
	Pickup FulfillmentMethod = "pickup"
)

// CalculateTax applies the configured rate table under the fulfillment
// dispatch rule: pickup is always taxed at the home state's rate; shipping
// is taxed at the destination state's rate when the business has nexus
// there, otherwise zero.
func (c *Calculator) CalculateTax(subtotal int, stateCode string, fulfillment FulfillmentMethod) int {
	taxState := strings.ToUpper(stateCode)
	if fulfillment == Pickup {
		taxState = c.homeState
	}

	rate, ok := c.cfg.TaxRates[taxState]
	if !ok {
		return 0
	}
	return int(math.Round(float64(subtotal) * rate))
}
