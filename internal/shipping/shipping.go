// Package shipping computes shipping cost and sales tax for an order.
// Rate tables are injected configuration; this package owns only the
// dispatch rules (which zone, which state's tax rate, when shipping is
// free).
package shipping

import (
	"fmt"
	"strings"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/config"
)

// Quote is the shipping cost for an order plus display metadata.
type Quote struct {
	Cost          int    `json:"cost"` // cents
	IsFree        bool   `json:"isFree"`
	Zone          int    `json:"zone"`
	Description   string `json:"description"`
	EstimatedDays string `json:"estimatedDays"`
}

// Calculator evaluates the configured rate tables.
type Calculator struct {
	cfg config.Business
	// homeState is where pickup tax is charged and the only nexus state.
	homeState string
}

func NewCalculator(cfg config.Business, homeState string) *Calculator {
	return &Calculator{cfg: cfg, homeState: homeState}
}

// Zone returns the shipping zone for a state code; unknown states ship at
// the national zone 3 rate.
func (c *Calculator) Zone(stateCode string) int {
	if z, ok := c.cfg.StateZones[strings.ToUpper(stateCode)]; ok {
		return z
	}
	return 3
}

// CalculateShipping returns the flat-rate quote for a destination state.
// The free-shipping threshold applies regardless of zone.
func (c *Calculator) CalculateShipping(stateCode string, subtotal int) Quote {
	zone := c.Zone(stateCode)
	rate := c.cfg.ZoneRates[zone]

	q := Quote{
		Zone:          zone,
		Cost:          rate,
		Description:   "Standard shipping",
		EstimatedDays: "7-10 business days",
	}
	switch zone {
	case 1:
		q.Description = "Regional shipping"
		q.EstimatedDays = "3-5 business days"
	case 2:
		q.EstimatedDays = "5-7 business days"
	}

	if subtotal >= c.cfg.FreeShippingThreshold {
		q.Cost = 0
		q.IsFree = true
	}
	return q
}

// AmountForFreeShipping returns how much more the cart needs to spend to
// qualify for free shipping; zero once it qualifies.
func (c *Calculator) AmountForFreeShipping(subtotal int) int {
	remaining := c.cfg.FreeShippingThreshold - subtotal
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FormatPrice renders cents as dollars; zero renders as FREE for shipping
// line display.
func FormatPrice(cents int) string {
	if cents == 0 {
		return "FREE"
	}
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
