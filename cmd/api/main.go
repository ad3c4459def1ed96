package main

import (
	"database/sql"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/admin"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/config"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/notify"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/payment"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	// KV table for order status records. Single writer (the webhook),
	// whole-record upserts, reads filtered by expiry.
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS order_status (
        order_key TEXT PRIMARY KEY,
        record jsonb NOT NULL,
        expires_at TIMESTAMPTZ NOT NULL
    )`); err != nil {
		panic(err)
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.ButtondownAPIKey != "" {
		notifier = notify.NewButtondown(cfg.ButtondownAPIKey, cfg.AdminEmail)
	} else {
		log.Println("BUTTONDOWN_API_KEY not set; order emails disabled")
	}

	statusRepo := payment.NewPostgresRepository(db)
	paymentService := payment.NewService(statusRepo, notifier)
	tacticalClient := payment.NewTacticalClient(cfg.TacticalAPIURL, cfg.TacticalAPIKey, nil)
	paymentHandler := payment.NewHandler(paymentService, tacticalClient, cfg.TacticalWebhookSecret, cfg.StorePhone)

	adminHandler := admin.NewHandler(statusRepo, cfg.JWTSecret, cfg.AdminEmail, cfg.AdminPassword)

	paymentHandler.RegisterPublicRoutes(app)
	adminHandler.RegisterPublicRoutes(app)

	// Only /api/admin/* (minus login) requires a token; the storefront
	// endpoints stay public.
	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		Filter: func(c *fiber.Ctx) bool {
			p := c.Path()
			if !strings.HasPrefix(p, "/api/admin") {
				return true
			}
			return p == "/api/admin/login"
		},
	}))

	adminHandler.RegisterProtectedRoutes(app)

	log.Printf("wvwo-commerce listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		panic(err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, X-Tactical-Signature",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}
