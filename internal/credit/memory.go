package credit

import (
	"context"
	"sync"
)

// Compile-time check that MemoryLedger implements Ledger.
var _ Ledger = (*MemoryLedger)(nil)

// MemoryLedger is an in-memory implementation of Ledger.
// All mutations run under one mutex, which makes Reserve the single
// atomic check-and-decrement the concurrency model requires.
// Suitable for development and testing; swap for persistent storage in
// production.
type MemoryLedger struct {
	mu      sync.RWMutex
	byID    map[string]*Account
	byEmail map[string]string
}

// NewMemoryLedger creates a new in-memory account ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]string),
	}
}

// Create adds a new account.
func (l *MemoryLedger) Create(_ context.Context, acc *Account) error {
	if acc.Balance < 0 {
		return ErrNegativeBalance
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.byEmail[acc.Email]; ok {
		return ErrEmailTaken
	}

	clone := *acc
	l.byID[acc.ID] = &clone
	l.byEmail[acc.Email] = acc.ID
	return nil
}

// FindByID retrieves an account by ID.
// Returns a copy to prevent external mutations.
func (l *MemoryLedger) FindByID(_ context.Context, id string) (*Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acc, ok := l.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	clone := *acc
	return &clone, nil
}

// FindByEmail retrieves an account by email.
// Returns a copy to prevent external mutations.
func (l *MemoryLedger) FindByEmail(_ context.Context, email string) (*Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.byEmail[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	clone := *l.byID[id]
	return &clone, nil
}

// SetBalance overwrites the account balance.
func (l *MemoryLedger) SetBalance(_ context.Context, id string, balance int) error {
	if balance < 0 {
		return ErrNegativeBalance
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	acc.Balance = balance
	return nil
}

// Reserve debits amount as one conditional decrement under the lock.
func (l *MemoryLedger) Reserve(_ context.Context, id string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	if acc.Balance < amount {
		return ErrInsufficientCredit
	}
	acc.Balance -= amount
	return nil
}

// Refund returns amount to the balance.
func (l *MemoryLedger) Refund(_ context.Context, id string, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc, ok := l.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	acc.Balance += amount
	return nil
}
