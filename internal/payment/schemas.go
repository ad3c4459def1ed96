// Package payment holds the three edge endpoints of the checkout flow:
// payment session creation, the Tactical Payments webhook, and the order
// status read path the confirmation page polls.
package payment

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/order"
)

// StatusValue is the authoritative payment outcome for an order.
type StatusValue string

const (
	StatusPendingPayment StatusValue = "pending_payment"
	StatusPaid           StatusValue = "paid"
	StatusFailed         StatusValue = "failed"
	StatusRefunded       StatusValue = "refunded"
	StatusDisputed       StatusValue = "disputed"
)

// Customer identifies the payer on the processor's hosted page.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// LineItem is a display line for the hosted payment page. Price in cents.
type LineItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

// Request is the client's payment-session request body.
type Request struct {
	OrderID    string     `json:"orderId"`
	Amount     int        `json:"amount"` // cents
	Currency   string     `json:"currency"`
	Customer   Customer   `json:"customer"`
	Items      []LineItem `json:"items"`
	ReturnURL  string     `json:"returnUrl"`
	CancelURL  string     `json:"cancelUrl"`
	WebhookURL string     `json:"webhookUrl"`
}

var tenDigits = regexp.MustCompile(`^\d{10}$`)
var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate treats the request as untrusted client JSON.
func (r Request) Validate() error {
	if !order.IDPattern.MatchString(r.OrderID) {
		return fmt.Errorf("invalid order ID format")
	}
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if r.Currency != "USD" {
		return fmt.Errorf("currency must be USD")
	}
	if l := len(r.Customer.FirstName); l < 2 || l > 50 {
		return fmt.Errorf("customer first name invalid")
	}
	if l := len(r.Customer.LastName); l < 2 || l > 50 {
		return fmt.Errorf("customer last name invalid")
	}
	if !emailShape.MatchString(r.Customer.Email) {
		return fmt.Errorf("customer email invalid")
	}
	if !tenDigits.MatchString(r.Customer.Phone) {
		return fmt.Errorf("customer phone must be 10 digits")
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("at least one item required")
	}
	for i, it := range r.Items {
		if it.SKU == "" || it.Name == "" || it.Quantity <= 0 || it.Price <= 0 {
			return fmt.Errorf("item %d invalid", i)
		}
	}
	for _, u := range []string{r.ReturnURL, r.CancelURL, r.WebhookURL} {
		if !validHTTPURL(u) {
			return fmt.Errorf("callback URLs must be absolute http(s)")
		}
	}
	return nil
}

func validOrderID(id string) bool {
	return order.IDPattern.MatchString(id)
}

func validHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SessionResponse is what the create-session endpoint returns.
type SessionResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
	Error       string `json:"error,omitempty"`
}

// WebhookEvent is Tactical Payments' event envelope. The type set is
// open: unknown types must parse so the handler can acknowledge and
// ignore them (forward compatibility with processor additions).
type WebhookEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	PaymentID string                 `json:"payment_id"`
	OrderID   string                 `json:"order_id"`
	Amount    int                    `json:"amount"`
	Status    string                 `json:"status,omitempty"`
	Timestamp string                 `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

const (
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
	EventPaymentRefunded  = "payment.refunded"
	EventPaymentDisputed  = "payment.disputed"
)

// Validate checks the envelope shape without restricting the type set.
func (e WebhookEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id missing")
	}
	if e.Type == "" {
		return fmt.Errorf("event type missing")
	}
	if e.PaymentID == "" {
		return fmt.Errorf("payment_id missing")
	}
	if !order.IDPattern.MatchString(e.OrderID) {
		return fmt.Errorf("order_id %q malformed", e.OrderID)
	}
	if e.Amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
		return fmt.Errorf("timestamp not RFC3339: %v", err)
	}
	return nil
}

// StatusRecord is the durable KV value at order:{orderId}. Every status
// transition writes a complete record, never a patch.
type StatusRecord struct {
	ID        string      `json:"id"`
	Status    StatusValue `json:"status"`
	PaymentID string      `json:"paymentId,omitempty"`
	PaidAt    string      `json:"paidAt,omitempty"`
	Total     int         `json:"total"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

// StatusResponse is the public read of a StatusRecord: status and payment
// reference only, never order contents or contact info. The endpoint is
// publicly pollable by order id.
type StatusResponse struct {
	Status    StatusValue `json:"status"`
	PaymentID string      `json:"paymentId,omitempty"`
	PaidAt    string      `json:"paidAt,omitempty"`
}
