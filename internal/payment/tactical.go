package payment

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
)

// ErrProcessor marks a non-2xx answer from Tactical Payments. Handlers
// map it to 502; the processor's error body is logged server-side and
// never forwarded to the client.
var ErrProcessor = errors.New("payment processor rejected the request")

// TacticalClient creates hosted checkout sessions against the Tactical
// Payments API. The API key stays server-side only.
type TacticalClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewTacticalClient(baseURL, apiKey string, httpClient *http.Client) *TacticalClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TacticalClient{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

// Session is the created hosted-checkout session.
type Session struct {
	RedirectURL string
	SessionID   string
}

// Tactical's API speaks snake_case; these shapes are the wire mapping of
// Request and nothing else.
type tacticalCustomer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type tacticalItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

type tacticalSessionRequest struct {
	OrderID    string           `json:"order_id"`
	Amount     int              `json:"amount"`
	Currency   string           `json:"currency"`
	Customer   tacticalCustomer `json:"customer"`
	Items      []tacticalItem   `json:"items"`
	ReturnURL  string           `json:"return_url"`
	CancelURL  string           `json:"cancel_url"`
	WebhookURL string           `json:"webhook_url"`
}

type tacticalSessionResponse struct {
	HostedURL   string `json:"hosted_url"`
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
	ID          string `json:"id"`
}

// CreateSession asks Tactical for a hosted checkout session and returns
// the redirect URL the client should follow.
func (c *TacticalClient) CreateSession(req Request) (Session, error) {
	items := make([]tacticalItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = tacticalItem(it)
	}

	body, err := json.Marshal(tacticalSessionRequest{
		OrderID:  req.OrderID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Customer: tacticalCustomer{
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Email:     req.Customer.Email,
			Phone:     req.Customer.Phone,
		},
		Items:      items,
		ReturnURL:  req.ReturnURL,
		CancelURL:  req.CancelURL,
		WebhookURL: req.WebhookURL,
	})
	if err != nil {
		return Session{}, err
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Session{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		errText, _ := io.ReadAll(res.Body)
		log.Printf("payment: tactical API error %d: %s", res.StatusCode, errText)
		return Session{}, fmt.Errorf("%w: status %d", ErrProcessor, res.StatusCode)
	}

	var parsed tacticalSessionResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return Session{}, fmt.Errorf("%w: unreadable response", ErrProcessor)
	}

	session := Session{RedirectURL: parsed.HostedURL, SessionID: parsed.SessionID}
	if session.RedirectURL == "" {
		session.RedirectURL = parsed.CheckoutURL
	}
	if session.SessionID == "" {
		session.SessionID = parsed.ID
	}
	if session.RedirectURL == "" {
		return Session{}, fmt.Errorf("%w: no redirect URL in response", ErrProcessor)
	}
	return session, nil
}
