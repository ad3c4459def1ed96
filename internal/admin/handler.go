// Package admin is the back-office review surface: login for the store
// owners and a read view over payment status records, used to work
// disputed and refunded orders. Nothing here is customer-facing.
package admin

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/payment"
)

// Lister reads status records by status. PostgresRepository and
// InMemoryRepository both satisfy it.
type Lister interface {
	ListByStatus(status payment.StatusValue) ([]payment.StatusRecord, error)
}

type Handler struct {
	lister    Lister
	jwtSecret string
	email     string
	password  string
}

func NewHandler(lister Lister, jwtSecret, email, password string) *Handler {
	return &Handler{lister: lister, jwtSecret: jwtSecret, email: email, password: password}
}

// RegisterPublicRoutes adds the login endpoint.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/admin/login", h.login)
}

// RegisterProtectedRoutes adds routes that sit behind the JWT middleware.
func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/admin/orders", h.listOrders)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *fiber.Ctx) error {
	var payload loginRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request"})
	}

	if h.email == "" || h.password == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Admin access not configured"})
	}
	emailOK := subtle.ConstantTimeCompare([]byte(payload.Email), []byte(h.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(payload.Password), []byte(h.password)) == 1
	if !emailOK || !passOK {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
	}

	claims := jwt.MapClaims{
		"email": payload.Email,
		"role":  "admin",
		"exp":   time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not issue token"})
	}
	return c.JSON(fiber.Map{"token": signed})
}

// listOrders returns status records filtered by ?status=; disputed is the
// default because that queue is the reason this surface exists.
func (h *Handler) listOrders(c *fiber.Ctx) error {
	if _, err := adminEmailFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	status := payment.StatusValue(c.Query("status", string(payment.StatusDisputed)))
	switch status {
	case payment.StatusPendingPayment, payment.StatusPaid, payment.StatusFailed, payment.StatusRefunded, payment.StatusDisputed:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown status filter"})
	}

	records, err := h.lister.ListByStatus(status)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"status": status, "orders": records})
}

// adminEmailFromCtx pulls the email claim out of the verified token the
// jwt middleware stored in locals.
func adminEmailFromCtx(c *fiber.Ctx) (string, error) {
	u := c.Locals("user")
	if u == nil {
		return "", fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", fiber.ErrUnauthorized
	}
	return email, nil
}
