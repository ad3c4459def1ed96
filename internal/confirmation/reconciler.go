// Package confirmation reconciles what the customer's return trip from
// the payment processor claims happened with what the webhook has
// actually recorded, and decides which next-steps flow to show.
package confirmation

import (
	"errors"
	"log"
	"net/url"
	"time"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/cart"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/order"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/payment"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/shipping"
)

// PaymentStatus is the processor's claim in the return URL. It is a
// claim, not a fact; the webhook-backed status endpoint is the truth.
type PaymentStatus string

const (
	StatusSuccess   PaymentStatus = "success"
	StatusPending   PaymentStatus = "pending"
	StatusDeclined  PaymentStatus = "declined"
	StatusCancelled PaymentStatus = "cancelled"
	StatusError     PaymentStatus = "error"
)

// ReturnData is the parsed payment-return query string.
type ReturnData struct {
	PaymentID    string
	OrderID      string
	Status       PaymentStatus
	ErrorMessage string
}

// ParseReturn reads the processor's return query parameters. The second
// return is false when this page load isn't a payment return at all
// (reserve-only orders and direct navigation land here without one).
func ParseReturn(query url.Values) (ReturnData, bool) {
	status := PaymentStatus(query.Get("status"))
	orderID := query.Get("orderId")
	paymentID := query.Get("paymentId")
	if status == "" || orderID == "" || paymentID == "" {
		return ReturnData{}, false
	}
	if !order.IDPattern.MatchString(orderID) {
		return ReturnData{}, false
	}
	switch status {
	case StatusSuccess, StatusPending, StatusDeclined, StatusCancelled, StatusError:
	default:
		status = StatusError
	}
	return ReturnData{
		PaymentID:    paymentID,
		OrderID:      orderID,
		Status:       status,
		ErrorMessage: query.Get("errorMessage"),
	}, true
}

// StatusClient reads the order status endpoint.
type StatusClient interface {
	Status(orderID string) (payment.StatusResponse, error)
}

// Outcome is what the confirmation page should render.
type Outcome string

const (
	// OutcomeConfirmed: order placed (and paid, when payment applied).
	OutcomeConfirmed Outcome = "confirmed"
	// OutcomeRetry: payment declined/cancelled/errored. Cart and pending
	// order are kept so the customer can try again.
	OutcomeRetry Outcome = "retry"
	// OutcomeUnknown: no local order record readable. We refuse to claim
	// success or failure we can't verify; the customer is asked to call.
	OutcomeUnknown Outcome = "unknown"
)

// Flow keys the "what happens next" rendering.
type Flow string

const (
	FlowFirearmPickup  Flow = "firearm_pickup"
	FlowStandardPickup Flow = "standard_pickup"
	FlowShipping       Flow = "shipping"
	FlowNone           Flow = ""
)

// FirearmPickupSteps is the fixed five-step reserve pickup procedure.
var FirearmPickupSteps = []string{
	"We'll call you within 1 business day to schedule your pickup",
	"Bring a valid government-issued photo ID",
	"Complete ATF Form 4473 in store",
	"Pass the NICS background check",
	"Take your firearm home",
}

// Result is everything the page needs to render.
type Result struct {
	Outcome       Outcome
	PaymentStatus PaymentStatus
	Order         *order.Data
	OrderID       string
	Flow          Flow
	// StorageError distinguishes "found but unreadable" from the plain
	// not-found case inside OutcomeUnknown, for diagnostics.
	StorageError bool
}

// Reconciler drives the confirmation-page state machine.
type Reconciler struct {
	status   StatusClient
	cache    *order.Cache
	cart     *cart.Store
	attempts int
	interval time.Duration
	sleep    func(time.Duration)
}

// NewReconciler uses the production poll budget: 5 attempts, 2 seconds
// apart, ~10s total.
func NewReconciler(status StatusClient, cache *order.Cache, cartStore *cart.Store) *Reconciler {
	return &Reconciler{
		status:   status,
		cache:    cache,
		cart:     cartStore,
		attempts: 5,
		interval: 2 * time.Second,
		sleep:    time.Sleep,
	}
}

// NewReconcilerWith injects the poll budget and sleep, for tests.
func NewReconcilerWith(status StatusClient, cache *order.Cache, cartStore *cart.Store, attempts int, interval time.Duration, sleep func(time.Duration)) *Reconciler {
	return &Reconciler{status: status, cache: cache, cart: cartStore, attempts: attempts, interval: interval, sleep: sleep}
}

// Run executes the reconciliation for one confirmation page load.
func (r *Reconciler) Run(query url.Values) Result {
	ret, isReturn := ParseReturn(query)

	if isReturn {
		switch ret.Status {
		case StatusDeclined, StatusCancelled, StatusError:
			// Keep cart and cached order for a retry; don't poll.
			res := Result{Outcome: OutcomeRetry, PaymentStatus: ret.Status, OrderID: ret.OrderID}
			if d, err := r.cache.GetPending(); err == nil {
				res.Order = &d
			}
			return res
		case StatusSuccess, StatusPending:
			ret.Status = r.poll(ret.OrderID, ret.Status)
			if ret.Status == StatusDeclined {
				res := Result{Outcome: OutcomeRetry, PaymentStatus: StatusDeclined, OrderID: ret.OrderID}
				if d, err := r.cache.GetPending(); err == nil {
					res.Order = &d
				}
				return res
			}
		}
	}

	d, err := r.cache.GetPending()
	if err != nil {
		res := Result{Outcome: OutcomeUnknown}
		if isReturn {
			res.PaymentStatus = ret.Status
			res.OrderID = ret.OrderID
		}
		if !errors.Is(err, order.ErrNoPendingOrder) {
			log.Printf("confirmation: failed to retrieve order: %v", err)
			res.StorageError = true
		}
		return res
	}

	// Order in hand: a non-return load (reserve-only order or refresh)
	// and a confirmed payment both clear the cart and the cache.
	if !isReturn || ret.Status == StatusSuccess {
		r.cart.Clear()
		r.cache.ClearPending()
	}

	res := Result{
		Outcome: OutcomeConfirmed,
		Order:   &d,
		OrderID: d.ID,
		Flow:    flowFor(d),
	}
	if isReturn {
		res.PaymentStatus = ret.Status
	}
	return res
}

// poll asks the status endpoint whether the webhook has landed yet,
// stopping early on a definitive answer. When the budget runs out the
// initial return status stands: the customer isn't held hostage to a
// slow webhook.
func (r *Reconciler) poll(orderID string, initial PaymentStatus) PaymentStatus {
	for attempt := 1; attempt <= r.attempts; attempt++ {
		res, err := r.status.Status(orderID)
		if err != nil {
			log.Printf("confirmation: status poll %d/%d error: %v", attempt, r.attempts, err)
		} else {
			switch res.Status {
			case payment.StatusPaid:
				return StatusSuccess
			case payment.StatusFailed:
				return StatusDeclined
			}
		}
		if attempt < r.attempts {
			r.sleep(r.interval)
		}
	}
	log.Printf("confirmation: webhook polling timeout for %s - status may update soon", orderID)
	return initial
}

func flowFor(d order.Data) Flow {
	if d.HasFirearms {
		return FlowFirearmPickup
	}
	if d.Fulfillment == shipping.Pickup {
		return FlowStandardPickup
	}
	return FlowShipping
}
