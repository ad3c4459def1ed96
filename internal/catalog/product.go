package catalog

// FulfillmentType is the three-tier fulfillment model:
// ship_or_pickup (tier 1), pickup_only (tier 2, e.g. ammo),
// reserve_hold (tier 3, FFL firearms reserved for in-store completion).
type FulfillmentType string

const (
	ShipOrPickup FulfillmentType = "ship_or_pickup"
	PickupOnly   FulfillmentType = "pickup_only"
	ReserveHold  FulfillmentType = "reserve_hold"
)

// Product is the catalog entity as the checkout core sees it. The catalog
// content layer owns these; from the cart's perspective they are immutable.
// JSON tags follow the camelCase convention used across the project.
type Product struct {
	ID              string          `json:"productId"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	ShortName       string          `json:"shortName"`
	Price           int             `json:"price"` // cents
	PriceDisplay    string          `json:"priceDisplay"`
	Image           string          `json:"image,omitempty"`
	CategoryID      string          `json:"categoryId,omitempty"`
	FulfillmentType FulfillmentType `json:"fulfillmentType"`
	FFLRequired     bool            `json:"fflRequired"`
	AgeRestriction  int             `json:"ageRestriction,omitempty"` // 18 or 21; 0 = none
	MaxQuantity     int             `json:"maxQuantity,omitempty"`    // 0 = use default
	Hazmat          bool            `json:"hazmat,omitempty"`
	Shippable       bool            `json:"shippable"`
}
