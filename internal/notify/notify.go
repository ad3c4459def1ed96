// Package notify sends order emails through Buttondown. Every call is
// best-effort: the webhook commits the status write first and never fails
// a processed event because an email didn't go out.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Notifier is what the webhook service needs from the email layer.
type Notifier interface {
	PaymentConfirmation(orderID string) error
	PaymentFailed(orderID string) error
	DisputeAlert(orderID string) error
}

const defaultBaseURL = "https://api.buttondown.email"

// Buttondown sends transactional emails via the Buttondown API.
type Buttondown struct {
	apiKey     string
	adminEmail string
	baseURL    string
	httpClient *http.Client
}

func NewButtondown(apiKey, adminEmail string) *Buttondown {
	return &Buttondown{
		apiKey:     apiKey,
		adminEmail: adminEmail,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
}

// NewButtondownAt overrides the API base URL and client, for tests.
func NewButtondownAt(apiKey, adminEmail, baseURL string, httpClient *http.Client) *Buttondown {
	return &Buttondown{apiKey: apiKey, adminEmail: adminEmail, baseURL: baseURL, httpClient: httpClient}
}

func (b *Buttondown) PaymentConfirmation(orderID string) error {
	return b.send(
		"Order Confirmation - "+orderID,
		"Your order "+orderID+" has been confirmed!\n\nWe'll be in touch soon.\n\nGrand love ya,\nKim & Bryan",
	)
}

func (b *Buttondown) PaymentFailed(orderID string) error {
	return b.send(
		"Payment Issue - "+orderID,
		"Payment for order "+orderID+" didn't go through. Give us a call and we'll sort it out.",
	)
}

func (b *Buttondown) DisputeAlert(orderID string) error {
	return b.send(
		"DISPUTE - "+orderID+" needs manual review",
		"Order "+orderID+" has a payment dispute. Review it before fulfilling.",
	)
}

type emailPayload struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (b *Buttondown) send(subject, body string) error {
	payload, err := json.Marshal(emailPayload{Email: b.adminEmail, Subject: subject, Body: body})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, b.baseURL+"/v1/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Token "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("buttondown API error: %d", res.StatusCode)
	}
	return nil
}

// Noop satisfies Notifier without sending anything. Used in tests and
// when no API key is configured.
type Noop struct{}

func (Noop) PaymentConfirmation(string) error { return nil }
func (Noop) PaymentFailed(string) error       { return nil }
func (Noop) DisputeAlert(string) error        { return nil }
