package catalog

// Tier returns the fulfillment tier for a product:
// 1 for shippable items, 2 for pickup-only, 3 for FFL firearms.
func Tier(p Product) int {
	switch p.FulfillmentType {
	case ReserveHold:
		return 3
	case PickupOnly:
		return 2
	default:
		return 1
	}
}

// IsFirearm reports whether the product requires an FFL transfer.
func IsFirearm(p Product) bool {
	return p.FulfillmentType == ReserveHold
}

// IsAmmo reports whether the product is ammunition: pickup-only and
// flagged as hazardous material.
func IsAmmo(p Product) bool {
	return p.FulfillmentType == PickupOnly && p.Hazmat
}

// IsShippable reports whether the product can be shipped to customers.
func IsShippable(p Product) bool {
	return p.FulfillmentType == ShipOrPickup
}

// RequiresAgeVerification reports whether the product needs an age check
// at checkout.
func RequiresAgeVerification(p Product) bool {
	return p.AgeRestriction != 0
}

// MaxOrderQuantity returns the per-order quantity cap for a product.
// Explicit MaxQuantity wins; firearms default to 1, everything else to 10.
func MaxOrderQuantity(p Product) int {
	if p.MaxQuantity > 0 {
		return p.MaxQuantity
	}
	if IsFirearm(p) {
		return 1
	}
	return 10
}

// DeriveFulfillmentType infers a fulfillment type from product attributes.
// Used when migrating legacy catalog data that predates the tier field:
// FFL firearms -> reserve_hold, non-shippable or ammo -> pickup_only,
// everything else -> ship_or_pickup.
func DeriveFulfillmentType(p Product) FulfillmentType {
	if p.FFLRequired && p.CategoryID == "firearms" {
		return ReserveHold
	}
	if !p.Shippable || p.CategoryID == "ammo" {
		return PickupOnly
	}
	return ShipOrPickup
}
