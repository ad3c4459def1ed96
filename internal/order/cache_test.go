package order

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/cart"
	"github.com/wvwildoutdoors/wvwo-commerce/internal/shipping"
)

func testOrder() Data {
	return Data{
		ID:          "WVWO-2026-000042",
		CreatedAt:   "2026-03-14T12:00:00Z",
		Contact:     testContact(),
		Fulfillment: shipping.Pickup,
		Items:       testItems(),
		Subtotal:    5000,
		Tax:         300,
		Total:       5300,
		Status:      StatusPendingPayment,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(cart.NewInMemoryStorage())

	require.True(t, c.StorePending(testOrder()))

	got, err := c.GetPending()
	require.NoError(t, err)
	assert.Equal(t, "WVWO-2026-000042", got.ID)
	assert.Equal(t, 5300, got.Total)

	require.True(t, c.ClearPending())
	_, err = c.GetPending()
	assert.ErrorIs(t, err, ErrNoPendingOrder)
}

func TestCacheMissingVsCorrupt(t *testing.T) {
	storage := cart.NewInMemoryStorage()
	c := NewCache(storage)

	_, err := c.GetPending()
	assert.ErrorIs(t, err, ErrNoPendingOrder)

	require.NoError(t, storage.Set(StorageKey, []byte("{broken")))
	_, err = c.GetPending()
	assert.ErrorIs(t, err, ErrCorruptOrder)

	// Corrupt data was cleared so the next read is a clean miss.
	_, err = c.GetPending()
	assert.ErrorIs(t, err, ErrNoPendingOrder)
}

func TestCacheRejectsInvalidOrder(t *testing.T) {
	storage := cart.NewInMemoryStorage()
	c := NewCache(storage)

	// Well-formed JSON, but the order fails validation: ship with no address.
	d := testOrder()
	d.Fulfillment = shipping.Ship
	d.ShippingAddress = nil
	raw, _ := json.Marshal(d)
	require.NoError(t, storage.Set(StorageKey, raw))

	_, err := c.GetPending()
	assert.ErrorIs(t, err, ErrCorruptOrder)
}

func TestCacheRejectsMalformedID(t *testing.T) {
	storage := cart.NewInMemoryStorage()
	c := NewCache(storage)

	d := testOrder()
	d.ID = "ORDER-1"
	raw, _ := json.Marshal(d)
	require.NoError(t, storage.Set(StorageKey, raw))

	_, err := c.GetPending()
	assert.ErrorIs(t, err, ErrCorruptOrder)
}

// brokenStorage fails every operation.
type brokenStorage struct{}

func (brokenStorage) Get(string) ([]byte, error) { return nil, errors.New("storage down") }
func (brokenStorage) Set(string, []byte) error   { return errors.New("storage down") }
func (brokenStorage) Delete(string) error        { return errors.New("storage down") }

func TestCacheStorageFailure(t *testing.T) {
	c := NewCache(brokenStorage{})

	// StorePending reports failure instead of panicking; the caller shows
	// the order number so the customer still has a reference.
	assert.False(t, c.StorePending(testOrder()))

	_, err := c.GetPending()
	assert.ErrorIs(t, err, ErrStorage)

	assert.False(t, c.ClearPending())
}
