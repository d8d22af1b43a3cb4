package task

import (
	"context"
	"errors"
	"sync"
)

// ErrRecordNotFound is returned when a task record cannot be found by ID.
var ErrRecordNotFound = errors.New("task: record not found")

// Record tracks one submitted task and the credit reservation taken for
// it, so that settlement happens at most once per task.
type Record struct {
	// Handle identifies the submitted task.
	Handle Handle
	// Cost is the number of credits reserved at submission.
	Cost int
	// Settled is true once the reservation has been committed or refunded.
	Settled bool
}

// Registry stores task records for the lifetime of the process.
//
// Records are process-local: they do not survive a restart, and polling a
// task submitted by a previous process still works as long as the caller
// retained the provider task ID. A record that is missing at settlement
// time simply means there is no reservation left to settle.
type Registry interface {
	// Save persists a record. An existing record with the same task ID
	// is replaced.
	Save(ctx context.Context, rec *Record) error

	// FindByID retrieves a record by task ID.
	// Returns ErrRecordNotFound if no record exists.
	FindByID(ctx context.Context, id string) (*Record, error)

	// MarkSettled atomically flags a record as settled and reports
	// whether this call was the one that settled it. It returns false
	// when the record is already settled, and ErrRecordNotFound when no
	// record exists.
	MarkSettled(ctx context.Context, id string) (bool, error)

	// Delete removes a record.
	// Returns ErrRecordNotFound if no record exists.
	Delete(ctx context.Context, id string) error
}

// Compile-time check that MemoryRegistry implements Registry.
var _ Registry = (*MemoryRegistry)(nil)

// MemoryRegistry is an in-memory implementation of Registry.
// It uses a map with RWMutex for thread-safe access.
type MemoryRegistry struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryRegistry creates a new in-memory task registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		records: make(map[string]*Record),
	}
}

// Save persists a record to the in-memory storage.
// Stores a copy to avoid external mutations.
func (r *MemoryRegistry) Save(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *rec
	r.records[rec.Handle.ID] = &clone
	return nil
}

// FindByID retrieves a record by task ID.
// Returns a copy to prevent external mutations.
func (r *MemoryRegistry) FindByID(_ context.Context, id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

// MarkSettled atomically flags a record as settled.
func (r *MemoryRegistry) MarkSettled(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return false, ErrRecordNotFound
	}
	if rec.Settled {
		return false, nil
	}
	rec.Settled = true
	return true, nil
}

// Delete removes a record from storage.
func (r *MemoryRegistry) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}
