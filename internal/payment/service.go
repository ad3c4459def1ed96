package payment

import (
	"log"
	"time"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/notify"
)

// Service applies webhook events to the status store and serves status
// reads. The store write is the commit point; notifications are
// best-effort side effects after it.
type Service struct {
	repo     StatusRepository
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(repo StatusRepository, notifier notify.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

// ProcessEvent dispatches a signature-verified, schema-valid event.
// Unknown event types are logged and ignored so new processor event
// types don't start bouncing deliveries. A returned error means the
// store write failed and the processor should retry.
func (s *Service) ProcessEvent(e WebhookEvent) error {
	switch e.Type {
	case EventPaymentCompleted:
		if err := s.transition(e, StatusPaid, e.Timestamp); err != nil {
			return err
		}
		if err := s.notifier.PaymentConfirmation(e.OrderID); err != nil {
			log.Printf("payment: confirmation email failed for %s (non-critical): %v", e.OrderID, err)
		}
		log.Printf("payment: order %s marked as paid", e.OrderID)

	case EventPaymentFailed:
		if err := s.transition(e, StatusFailed, ""); err != nil {
			return err
		}
		if err := s.notifier.PaymentFailed(e.OrderID); err != nil {
			log.Printf("payment: failure email failed for %s (non-critical): %v", e.OrderID, err)
		}
		log.Printf("payment: order %s payment failed", e.OrderID)

	case EventPaymentRefunded:
		if err := s.transition(e, StatusRefunded, ""); err != nil {
			return err
		}
		log.Printf("payment: order %s refunded", e.OrderID)

	case EventPaymentDisputed:
		if err := s.transition(e, StatusDisputed, ""); err != nil {
			return err
		}
		if err := s.notifier.DisputeAlert(e.OrderID); err != nil {
			log.Printf("payment: dispute alert failed for %s (non-critical): %v", e.OrderID, err)
		}
		log.Printf("payment: order %s disputed - flagged for review", e.OrderID)

	default:
		log.Printf("payment: unhandled event type %q for %s, ignoring", e.Type, e.OrderID)
	}
	return nil
}

// transition writes a complete replacement record. Replaying the same
// event writes the same record again, so processor retries are harmless.
func (s *Service) transition(e WebhookEvent, status StatusValue, paidAt string) error {
	ts := s.now().UTC().Format(time.RFC3339)
	return s.repo.Put(StatusRecord{
		ID:        e.OrderID,
		Status:    status,
		PaymentID: e.PaymentID,
		PaidAt:    paidAt,
		Total:     e.Amount,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
}

// Status reads the public view of an order's payment state. A missing
// record is not an error: the webhook simply hasn't arrived, so the
// answer is pending_payment.
func (s *Service) Status(orderID string) (StatusResponse, error) {
	rec, err := s.repo.Get(orderID)
	if err == ErrNotFound {
		return StatusResponse{Status: StatusPendingPayment}, nil
	}
	if err != nil {
		return StatusResponse{}, err
	}
	return StatusResponse{Status: rec.Status, PaymentID: rec.PaymentID, PaidAt: rec.PaidAt}, nil
}
