// Package order builds immutable order snapshots at checkout submission
// and caches the pending order in short-lived client storage for the
// confirmation page.
package order

import (
	"fmt"
	"regexp"
	"time"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/cart"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/shipping"
)

// IDPattern is the canonical order id format: WVWO-YYYY-NNNNNN.
var IDPattern = regexp.MustCompile(`^WVWO-\d{4}-\d{6}$`)

// Status is the order's lifecycle from the customer's point of view.
// Payment outcome is NOT recorded here; the server-side status record is
// the sole source of truth for that.
type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
	StatusProcessing     Status = "processing"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusShipped        Status = "shipped"
	StatusCompleted      Status = "completed"
)

type ContactInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type ShippingAddress struct {
	Street string `json:"street"`
	Apt    string `json:"apt,omitempty"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Data is the immutable snapshot built once at submission. All amounts
// are cents.
type Data struct {
	ID              string                     `json:"id"`
	CreatedAt       string                     `json:"createdAt"` // RFC3339
	Contact         ContactInfo                `json:"contact"`
	Fulfillment     shipping.FulfillmentMethod `json:"fulfillment"`
	ShippingAddress *ShippingAddress           `json:"shippingAddress,omitempty"`
	Items           []cart.Item                `json:"items"`
	Subtotal        int                        `json:"subtotal"`
	Shipping        int                        `json:"shipping"`
	Tax             int                        `json:"tax"`
	Total           int                        `json:"total"`
	HasFirearms     bool                       `json:"hasFirearms"`
	HasPickupOnly   bool                       `json:"hasPickupOnlyItems"`
	ReserveAgreed   bool                       `json:"reserveAgreed,omitempty"`
	Status          Status                     `json:"status"`
}

// FullName joins contact first and last names for display.
func FullName(c ContactInfo) string {
	return c.FirstName + " " + c.LastName
}

// FormatPrice renders cents as a dollar amount.
func FormatPrice(cents int) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

// FormatDate renders an RFC3339 timestamp the way the confirmation page
// shows it, e.g. "Monday, January 2, 2006". Unparseable input comes back
// unchanged.
func FormatDate(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Format("Monday, January 2, 2006")
}

// validate treats order data read back from storage as untrusted.
func validate(d Data) error {
	if !IDPattern.MatchString(d.ID) {
		return fmt.Errorf("order id %q malformed", d.ID)
	}
	if d.Contact.Email == "" || d.Contact.FirstName == "" || d.Contact.LastName == "" {
		return fmt.Errorf("order contact incomplete")
	}
	if d.Fulfillment != shipping.Ship && d.Fulfillment != shipping.Pickup {
		return fmt.Errorf("order fulfillment %q unknown", d.Fulfillment)
	}
	if d.Fulfillment == shipping.Ship && d.ShippingAddress == nil {
		return fmt.Errorf("shipped order missing address")
	}
	if len(d.Items) == 0 {
		return fmt.Errorf("order has no items")
	}
	for _, it := range d.Items {
		if it.Quantity < 1 || it.Price < 0 {
			return fmt.Errorf("order item %q out of bounds", it.ProductID)
		}
	}
	if d.Subtotal < 0 || d.Shipping < 0 || d.Tax < 0 || d.Total < 0 {
		return fmt.Errorf("order totals negative")
	}
	switch d.Status {
	case StatusPendingPayment, StatusPaid, StatusProcessing, StatusReadyForPickup, StatusShipped, StatusCompleted:
	default:
		return fmt.Errorf("order status %q unknown", d.Status)
	}
	return nil
}
