package order

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/cart"
)

// StorageKey is the session-scoped client storage entry for the order
// awaiting payment confirmation.
const StorageKey = "wvwo_pending_order"

var (
	// ErrNoPendingOrder: nothing stored. Expected on direct navigation to
	// the confirmation page.
	ErrNoPendingOrder = errors.New("no pending order found")
	// ErrCorruptOrder: something was stored but didn't validate. Logged
	// as an error; the entry is cleared so it can't fail repeatedly.
	ErrCorruptOrder = errors.New("order data corrupted")
	// ErrStorage: the storage itself failed.
	ErrStorage = errors.New("storage access failed")
)

// Cache holds the pending order between checkout submission and the
// confirmation page, over injected short-lived client storage.
type Cache struct {
	storage cart.Storage
}

func NewCache(storage cart.Storage) *Cache {
	return &Cache{storage: storage}
}

// StorePending persists the order for the confirmation page. Returns
// false instead of an error on failure: the caller shows a "note your
// order number" banner with the generated id so a storage loss never
// loses the paper trail entirely.
func (c *Cache) StorePending(d Data) bool {
	raw, err := json.Marshal(d)
	if err == nil {
		err = c.storage.Set(StorageKey, raw)
	}
	if err != nil {
		log.Printf("order: failed to store pending order %s: %v", d.ID, err)
		return false
	}
	return true
}

// GetPending reads the pending order back, validating it before trusting
// it. The two failure modes are distinguished: ErrNoPendingOrder is
// normal, ErrCorruptOrder indicates the stored JSON was unusable.
func (c *Cache) GetPending() (Data, error) {
	raw, err := c.storage.Get(StorageKey)
	if err != nil {
		if errors.Is(err, cart.ErrNotFound) {
			return Data{}, ErrNoPendingOrder
		}
		log.Printf("order: failed to read pending order: %v", err)
		return Data{}, ErrStorage
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		log.Printf("order: pending order unparseable: %v", err)
		c.storage.Delete(StorageKey)
		return Data{}, ErrCorruptOrder
	}
	if err := validate(d); err != nil {
		log.Printf("order: pending order invalid: %v", err)
		c.storage.Delete(StorageKey)
		return Data{}, ErrCorruptOrder
	}
	return d, nil
}

// ClearPending removes the cached order once payment is confirmed.
func (c *Cache) ClearPending() bool {
	if err := c.storage.Delete(StorageKey); err != nil {
		log.Printf("order: failed to clear pending order: %v", err)
		return false
	}
	return true
}
