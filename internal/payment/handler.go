package payment

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Handler owns the three public payment endpoints. All three are
// stateless; concurrency safety lives in the status store's per-key
// atomicity.
type Handler struct {
	service       *Service
	client        *TacticalClient
	webhookSecret string
	storePhone    string
}

func NewHandler(service *Service, client *TacticalClient, webhookSecret, storePhone string) *Handler {
	return &Handler{service: service, client: client, webhookSecret: webhookSecret, storePhone: storePhone}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/payment/create-session", h.createSession)
	app.Post("/api/payment/webhook", h.webhook)
	app.Get("/api/orders/:orderId/status", h.orderStatus)
}

func (h *Handler) createSession(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(SessionResponse{
			Success: false,
			Error:   "Invalid payment request: " + err.Error(),
		})
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(SessionResponse{
			Success: false,
			Error:   "Invalid payment request: " + err.Error(),
		})
	}

	session, err := h.client.CreateSession(req)
	if err != nil {
		// Network failure and processor rejection read the same to the
		// customer: try again or call. Processor internals stay in the
		// server log.
		log.Printf("payment: create session failed for %s: %v", req.OrderID, err)
		status := fiber.StatusInternalServerError
		msg := "Something went wrong creating the payment session. Give us a call at " + h.storePhone + " and we'll help sort it out."
		if errors.Is(err, ErrProcessor) {
			status = fiber.StatusBadGateway
			msg = "Couldn't create payment session. Please try again or call us at " + h.storePhone + "."
		}
		return c.Status(status).JSON(SessionResponse{Success: false, Error: msg})
	}

	return c.Status(fiber.StatusOK).JSON(SessionResponse{
		Success:     true,
		RedirectURL: session.RedirectURL,
		SessionID:   session.SessionID,
	})
}

// webhook is the authoritative state-transition point for payment
// outcomes. Order is strict: raw-body signature check, then schema, then
// dispatch. Nothing is processed on a signature mismatch.
func (h *Handler) webhook(c *fiber.Ctx) error {
	rawBody := c.Body()
	signature := c.Get("X-Tactical-Signature")

	if !VerifySignature(rawBody, signature, h.webhookSecret) {
		log.Printf("payment: invalid webhook signature from %s - potential attack", c.IP())
		return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
	}

	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		log.Printf("payment: webhook body unparseable: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Bad Request")
	}
	if err := event.Validate(); err != nil {
		log.Printf("payment: webhook event invalid: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Bad Request")
	}

	if err := h.service.ProcessEvent(event); err != nil {
		// 500 so the processor retries the delivery.
		log.Printf("payment: webhook processing error for %s: %v", event.OrderID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Status(fiber.StatusOK).SendString("OK")
}

func (h *Handler) orderStatus(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	if !validOrderID(orderID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid order ID format"})
	}

	res, err := h.service.Status(orderID)
	if err != nil {
		log.Printf("payment: status read failed for %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	// The confirmation page polls this; stale answers would defeat it.
	c.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	return c.Status(fiber.StatusOK).JSON(res)
}
