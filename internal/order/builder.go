package order

import (
	"fmt"
	"time"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/cart"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/shipping"
)

// CreateOrderParams carries already-validated checkout input into the
// builder. ShippingCost is precomputed by the shipping calculator from
// the chosen destination.
type CreateOrderParams struct {
	Contact         ContactInfo
	Fulfillment     shipping.FulfillmentMethod
	ShippingAddress *ShippingAddress
	Items           []cart.Item
	Subtotal        int
	ShippingCost    int
	Summary         cart.Summary
	ReserveAgreed   bool
}

// Builder constructs order snapshots. The tax calculator and clock are
// injected; construction makes no network calls.
type Builder struct {
	calc *shipping.Calculator
	now  func() time.Time
}

func NewBuilder(calc *shipping.Calculator) *Builder {
	return &Builder{calc: calc, now: time.Now}
}

// NewBuilderAt is NewBuilder with an injected clock, for tests.
func NewBuilderAt(calc *shipping.Calculator, now func() time.Time) *Builder {
	return &Builder{calc: calc, now: now}
}

// GenerateID returns a new order id, WVWO-YYYY-NNNNNN. The sequence is
// timestamp-derived; a KV counter can replace it without changing the
// format.
func (b *Builder) GenerateID() string {
	t := b.now()
	sequence := t.UnixMilli() % 1000000
	return fmt.Sprintf("WVWO-%d-%06d", t.Year(), sequence)
}

// CreateOrder snapshots cart contents and validated form input into an
// immutable order. Tax is computed here from the fulfillment dispatch
// rule; pickup orders get no shipping cost and no address.
func (b *Builder) CreateOrder(p CreateOrderParams) Data {
	taxState := ""
	addr := p.ShippingAddress
	if p.Fulfillment == shipping.Ship && addr != nil {
		taxState = addr.State
	} else {
		addr = nil
	}
	tax := b.calc.CalculateTax(p.Subtotal, taxState, p.Fulfillment)

	items := make([]cart.Item, len(p.Items))
	copy(items, p.Items)

	return Data{
		ID:              b.GenerateID(),
		CreatedAt:       b.now().UTC().Format(time.RFC3339),
		Contact:         p.Contact,
		Fulfillment:     p.Fulfillment,
		ShippingAddress: addr,
		Items:           items,
		Subtotal:        p.Subtotal,
		Shipping:        p.ShippingCost,
		Tax:             tax,
		Total:           p.Subtotal + p.ShippingCost + tax,
		HasFirearms:     p.Summary.HasFirearms,
		HasPickupOnly:   p.Summary.HasPickupOnlyItems,
		ReserveAgreed:   p.ReserveAgreed,
		Status:          StatusPendingPayment,
	}
}
