package payment

import (
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("order status not found")

// StatusRepository is the durable KV store for order status records,
// keyed order:{orderId}. The webhook handler is its only writer; every
// write replaces the whole record, so per-key atomicity is all the
// concurrency control needed.
type StatusRepository interface {
	Get(orderID string) (StatusRecord, error)
	Put(rec StatusRecord) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]StatusRecord
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]StatusRecord)}
}

func (r *InMemoryRepository) Get(orderID string) (StatusRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records["order:"+orderID]
	if !ok {
		return StatusRecord{}, ErrNotFound
	}
	return rec, nil
}

func (r *InMemoryRepository) Put(rec StatusRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records["order:"+rec.ID] = rec
	return nil
}

func (r *InMemoryRepository) ListByStatus(status StatusValue) ([]StatusRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]StatusRecord, 0)
	for _, rec := range r.records {
		if rec.Status == status {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].UpdatedAt > records[j].UpdatedAt })
	return records, nil
}
