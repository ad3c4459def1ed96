package cart

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wvwildoutdoors/wvwo-commerce/internal/catalog"
)

// PersistenceMode tells the UI whether the cart survives the session.
type PersistenceMode string

const (
	ModePersistent PersistenceMode = "persistent"
	ModeSession    PersistenceMode = "session"
)

// Store is an explicitly constructed cart with an injected storage
// backend. One instance lives for the whole session; there is no hidden
// package-level state.
type Store struct {
	mu      sync.Mutex
	state   State
	isOpen  bool
	storage Storage
	now     func() time.Time

	mode PersistenceMode
	// restoreError is set when persisted cart data existed but could not
	// be read back; the UI shows a non-fatal "couldn't restore previous
	// cart" notice.
	restoreError bool
	// persistenceWarning is set once, the first time a write fails and
	// the store degrades to session mode.
	persistenceWarning bool
}

// NewStore builds a store over the given storage and restores any
// persisted cart. Corrupt, stale or unmigratable data leaves the store
// empty rather than failing construction.
func NewStore(storage Storage) *Store {
	return NewStoreAt(storage, time.Now)
}

// NewStoreAt is NewStore with an injected clock, for expiry tests.
func NewStoreAt(storage Storage, now func() time.Time) *Store {
	s := &Store{
		storage: storage,
		now:     now,
		mode:    ModePersistent,
		state: State{
			SchemaVersion: SchemaVersion,
			Items:         make(map[string]Item),
			LastUpdated:   now().UTC().Format(time.RFC3339),
			SessionID:     uuid.NewString(),
		},
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	raw, err := s.storage.Get(StorageKey)
	if err != nil {
		if err != ErrNotFound {
			log.Printf("cart: storage unavailable: %v", err)
			s.mode = ModeSession
		}
		return
	}

	var parsed State
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Printf("cart: failed to restore cart: %v", err)
		s.storage.Delete(StorageKey)
		s.restoreError = true
		return
	}

	// Stale carts are dropped silently.
	if t, err := time.Parse(time.RFC3339, parsed.LastUpdated); err != nil || s.now().Sub(t) >= ExpiryHours*time.Hour {
		s.storage.Delete(StorageKey)
		return
	}

	if parsed.SchemaVersion != SchemaVersion {
		migrated := migrateState(parsed.SchemaVersion, parsed)
		if migrated == nil {
			log.Printf("cart: could not migrate cart from schema v%d, clearing", parsed.SchemaVersion)
			s.storage.Delete(StorageKey)
			return
		}
		parsed = *migrated
	}

	// Stored JSON is untrusted until it passes validation.
	if err := validateState(parsed); err != nil {
		log.Printf("cart: persisted cart invalid: %v", err)
		s.storage.Delete(StorageKey)
		s.restoreError = true
		return
	}

	s.state = parsed
}

// migrateState upgrades older persisted carts to the current schema.
// Returns nil when no migration path exists, which clears the cart.
func migrateState(oldVersion int, _ State) *State {
	// Currently on v1, nothing to migrate from.
	return nil
}

// AddItem adds a snapshot line to the cart, enforcing quantity and
// firearm caps. A failed add leaves the cart untouched.
func (s *Store) AddItem(item Item) AddResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ProductID == "" || item.SKU == "" || item.Name == "" || item.MaxQuantity < 1 {
		return AddResult{Success: false, Message: "Invalid product data"}
	}
	if item.Quantity < 1 {
		return AddResult{Success: false, Message: "Quantity must be at least 1"}
	}

	existing, ok := s.state.Items[item.ProductID]
	newQuantity := item.Quantity
	if ok {
		newQuantity = existing.Quantity + item.Quantity
	}
	if newQuantity > item.MaxQuantity {
		return AddResult{Success: false, Message: fmt.Sprintf("Maximum %d per order", item.MaxQuantity)}
	}

	// Firearms: one per SKU, three per order. Conflicting fulfillment
	// types are still allowed in one cart; the summary narrows
	// fulfillmentOptions and checkout forces pickup.
	if item.FulfillmentType == catalog.ReserveHold {
		if ok {
			return AddResult{Success: false, Message: "This firearm is already reserved"}
		}
		firearms := 0
		for _, it := range s.state.Items {
			if it.FulfillmentType == catalog.ReserveHold {
				firearms++
			}
		}
		if firearms >= 3 {
			return AddResult{Success: false, Message: "Maximum 3 firearms per order"}
		}
	}

	if ok {
		existing.Quantity = newQuantity
		s.state.Items[item.ProductID] = existing
	} else {
		s.state.Items[item.ProductID] = item
	}
	s.touchAndPersist()

	return AddResult{Success: true, Message: item.ShortName + " added to cart"}
}

// UpdateQuantity sets a line's quantity; zero or less removes the line,
// and quantities above the line's cap are clamped to it.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.state.Items[productID]
	if !ok {
		return
	}
	if quantity <= 0 {
		delete(s.state.Items, productID)
	} else {
		if quantity > item.MaxQuantity {
			quantity = item.MaxQuantity
		}
		item.Quantity = quantity
		s.state.Items[productID] = item
	}
	s.touchAndPersist()
}

// RemoveItem drops a line from the cart. Unknown ids are a no-op.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Items[productID]; !ok {
		return
	}
	delete(s.state.Items, productID)
	s.touchAndPersist()
}

// Clear empties the cart. Called on confirmed payment success.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Items = make(map[string]Item)
	s.touchAndPersist()
}

// Summary derives the current totals and fulfillment options. Two calls
// without a mutation in between return identical results.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return summarize(s.state.Items)
}

// Items returns a copy of the current lines.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, 0, len(s.state.Items))
	for _, it := range s.state.Items {
		out = append(out, it)
	}
	return out
}

// Item returns a single line by product id.
func (s *Store) Item(productID string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.state.Items[productID]
	return it, ok
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Items) == 0
}

func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SessionID
}

// Drawer state. UI-only; not persisted.

func (s *Store) Open()  { s.mu.Lock(); s.isOpen = true; s.mu.Unlock() }
func (s *Store) Close() { s.mu.Lock(); s.isOpen = false; s.mu.Unlock() }

func (s *Store) Toggle() {
	s.mu.Lock()
	s.isOpen = !s.isOpen
	s.mu.Unlock()
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

// Mode reports whether the cart is surviving between sessions.
func (s *Store) Mode() PersistenceMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// RestoreError reports that a persisted cart existed but couldn't be
// restored. Non-fatal; the store started empty.
func (s *Store) RestoreError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restoreError
}

// PersistenceWarning reports that a cart write failed and the cart won't
// be saved between sessions.
func (s *Store) PersistenceWarning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistenceWarning
}

// touchAndPersist stamps lastUpdated and writes the cart out. A write
// failure degrades to session mode instead of surfacing an error; the
// in-memory cart keeps working.
func (s *Store) touchAndPersist() {
	s.state.LastUpdated = s.now().UTC().Format(time.RFC3339)

	var err error
	if len(s.state.Items) == 0 {
		err = s.storage.Delete(StorageKey)
	} else {
		var raw []byte
		raw, err = json.Marshal(s.state)
		if err == nil {
			err = s.storage.Set(StorageKey, raw)
		}
	}
	if err != nil {
		log.Printf("cart: failed to persist cart: %v", err)
		if s.mode == ModePersistent {
			s.persistenceWarning = true
		}
		s.mode = ModeSession
	}
}
