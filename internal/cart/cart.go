package cart

import (
	"fmt"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/catalog"
)

// SchemaVersion is bumped whenever the persisted CartState shape changes.
// Restore migrates older versions or clears the cart if it can't.
const SchemaVersion = 1

// StorageKey is the durable client storage entry holding the cart.
const StorageKey = "wvwo_cart"

// ExpiryHours is how long an untouched cart survives (7 days).
const ExpiryHours = 168

// Item is a product snapshot captured at add-to-cart time. Price is the
// price at that moment, not a live reference; checkout discloses that the
// charge is reconciled against the catalog at payment time.
type Item struct {
	ProductID       string                  `json:"productId"`
	SKU             string                  `json:"sku"`
	Name            string                  `json:"name"`
	ShortName       string                  `json:"shortName"`
	Price           int                     `json:"price"` // cents
	PriceDisplay    string                  `json:"priceDisplay"`
	Quantity        int                     `json:"quantity"`
	MaxQuantity     int                     `json:"maxQuantity"`
	Image           string                  `json:"image"`
	FulfillmentType catalog.FulfillmentType `json:"fulfillmentType"`
	FFLRequired     bool                    `json:"fflRequired"`
	AgeRestriction  int                     `json:"ageRestriction,omitempty"`
}

// State is the persisted cart: productId -> Item plus bookkeeping.
type State struct {
	SchemaVersion int             `json:"schemaVersion"`
	Items         map[string]Item `json:"items"`
	LastUpdated   string          `json:"lastUpdated"` // RFC3339
	SessionID     string          `json:"sessionId"`
}

// FulfillmentOption is a mode the whole cart can be fulfilled under.
type FulfillmentOption string

const (
	OptionShip   FulfillmentOption = "ship"
	OptionPickup FulfillmentOption = "pickup"
)

// Summary is derived from State on every read, never stored, so it can't
// drift from the items it describes.
type Summary struct {
	ItemCount               int                 `json:"itemCount"`
	Subtotal                int                 `json:"subtotal"` // cents
	HasShippableItems       bool                `json:"hasShippableItems"`
	HasPickupOnlyItems      bool                `json:"hasPickupOnlyItems"`
	HasFirearms             bool                `json:"hasFirearms"`
	RequiresAgeVerification bool                `json:"requiresAgeVerification"`
	FulfillmentOptions      []FulfillmentOption `json:"fulfillmentOptions"`
}

// AddResult reports whether an add succeeded along with a user-facing
// message either way.
type AddResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ItemFromProduct snapshots a catalog product into a cart line.
func ItemFromProduct(p catalog.Product, quantity int) Item {
	return Item{
		ProductID:       p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		ShortName:       p.ShortName,
		Price:           p.Price,
		PriceDisplay:    p.PriceDisplay,
		Quantity:        quantity,
		MaxQuantity:     catalog.MaxOrderQuantity(p),
		Image:           p.Image,
		FulfillmentType: p.FulfillmentType,
		FFLRequired:     p.FFLRequired,
		AgeRestriction:  p.AgeRestriction,
	}
}

func summarize(items map[string]Item) Summary {
	var s Summary
	for _, it := range items {
		s.ItemCount += it.Quantity
		s.Subtotal += it.Price * it.Quantity
		switch it.FulfillmentType {
		case catalog.ShipOrPickup:
			s.HasShippableItems = true
		case catalog.PickupOnly:
			s.HasPickupOnlyItems = true
		case catalog.ReserveHold:
			s.HasFirearms = true
		}
		if it.AgeRestriction != 0 {
			s.RequiresAgeVerification = true
		}
	}

	// Any reserve_hold or pickup_only item removes the ship option for
	// the whole order: firearms complete in store (FFL transfer) and
	// hazmat/pickup lines can't go in a shipping box, so a mixed cart is
	// fulfilled as a single pickup.
	if s.HasShippableItems && !s.HasFirearms && !s.HasPickupOnlyItems {
		s.FulfillmentOptions = []FulfillmentOption{OptionShip, OptionPickup}
	} else {
		s.FulfillmentOptions = []FulfillmentOption{OptionPickup}
	}
	return s
}

func validateState(s State) error {
	if s.Items == nil {
		return fmt.Errorf("cart items missing")
	}
	for id, it := range s.Items {
		if it.ProductID == "" || it.SKU == "" || it.ProductID != id {
			return fmt.Errorf("cart item %q malformed", id)
		}
		if it.MaxQuantity < 1 || it.Quantity < 1 || it.Quantity > it.MaxQuantity {
			return fmt.Errorf("cart item %q quantity out of bounds", id)
		}
		switch it.FulfillmentType {
		case catalog.ShipOrPickup, catalog.PickupOnly, catalog.ReserveHold:
		default:
			return fmt.Errorf("cart item %q has unknown fulfillment type %q", id, it.FulfillmentType)
		}
	}
	return nil
}
