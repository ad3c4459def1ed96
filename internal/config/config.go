package config

import "os"

// Config holds everything the API reads from the environment plus the
// business tables (tax, shipping) that are configuration rather than code.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	// Site identity
	SiteURL   string
	HomeState string
	// Store phone, shown whenever automation runs out of road.
	StorePhone string

	// Tactical Payments (hosted checkout)
	TacticalAPIURL        string
	TacticalAPIKey        string
	TacticalWebhookSecret string

	// Notifications (Buttondown)
	ButtondownAPIKey string
	AdminEmail       string

	// Admin review surface credentials. One shared login; this is a
	// two-person shop.
	AdminPassword string

	Business Business
}

// Business groups the rate tables injected into the shipping and tax
// calculators. Values default to the current WVWO tables but stay data,
// not code, so they can change without touching the calculators.
type Business struct {
	// TaxRates maps state code -> sales tax rate. States absent from the
	// map have no nexus and are not taxed.
	TaxRates map[string]float64

	// FreeShippingThreshold is in cents; at or above it shipping is free
	// regardless of zone.
	FreeShippingThreshold int

	// StateZones maps state codes to shipping zones 1..3. Unlisted states
	// fall through to zone 3 (national).
	StateZones map[string]int

	// ZoneRates maps zone -> flat rate in cents.
	ZoneRates map[int]int
}

func Load() Config {
	addr := os.Getenv("WVWO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	siteURL := os.Getenv("PUBLIC_SITE_URL")
	if siteURL == "" {
		siteURL = "https://wvwildoutdoors.com"
	}

	apiURL := os.Getenv("TACTICAL_API_URL")
	if apiURL == "" {
		apiURL = "https://api.tacticalpay.com"
	}

	return Config{
		Addr:                  addr,
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		SiteURL:               siteURL,
		HomeState:             "WV",
		StorePhone:            "(304) 649-5765",
		TacticalAPIURL:        apiURL,
		TacticalAPIKey:        os.Getenv("TACTICAL_API_KEY"),
		TacticalWebhookSecret: os.Getenv("TACTICAL_WEBHOOK_SECRET"),
		ButtondownAPIKey:      os.Getenv("BUTTONDOWN_API_KEY"),
		AdminEmail:            os.Getenv("ADMIN_EMAIL"),
		AdminPassword:         os.Getenv("ADMIN_PASSWORD"),
		Business:              DefaultBusiness(),
	}
}

// DefaultBusiness returns the current WVWO rate tables.
// Zones are driving distance from Birch River, WV. KY borders WV but ships
// at zone 2 rates (carrier pricing, per Kim).
func DefaultBusiness() Business {
	return Business{
		TaxRates: map[string]float64{
			"WV": 0.06,
		},
		FreeShippingThreshold: 7500, // $75.00
		StateZones: map[string]int{
			// Zone 1: WV + adjacent
			"WV": 1, "VA": 1, "MD": 1, "PA": 1, "OH": 1,
			// Zone 2: regional (~500 miles)
			"KY": 2, "NC": 2, "SC": 2, "TN": 2, "GA": 2, "IN": 2,
			"MI": 2, "NY": 2, "NJ": 2, "DE": 2, "DC": 2, "CT": 2,
			"MA": 2, "RI": 2, "VT": 2, "NH": 2, "ME": 2, "AL": 2,
			"MS": 2, "IL": 2, "WI": 2,
		},
		ZoneRates: map[int]int{
			1: 899,
			2: 1199,
			3: 1499,
		},
	}
}
