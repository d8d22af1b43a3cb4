package credit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newAccount(id, email string, balance int) *Account {
	return &Account{
		ID:        id,
		Email:     email,
		Balance:   balance,
		CreatedAt: time.Now(),
	}
}

func TestMemoryLedger_CreateAndFind(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	acc := newAccount("u1", "a@example.com", 20)
	if err := ledger.Create(ctx, acc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID, err := ledger.FindByID(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID.Email != "a@example.com" || byID.Balance != 20 {
		t.Errorf("unexpected account: %+v", byID)
	}

	byEmail, err := ledger.FindByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byEmail.ID != "u1" {
		t.Errorf("unexpected account: %+v", byEmail)
	}

	// Returned copies must not alias the stored account.
	byID.Balance = 999
	again, _ := ledger.FindByID(ctx, "u1")
	if again.Balance != 20 {
		t.Errorf("stored account was mutated externally: %+v", again)
	}
}

func TestMemoryLedger_CreateDuplicateEmail(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Create(ctx, newAccount("u1", "a@example.com", 20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ledger.Create(ctx, newAccount("u2", "a@example.com", 20))
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestMemoryLedger_FindMissing(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if _, err := ledger.FindByID(ctx, "nope"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := ledger.FindByEmail(ctx, "nope@example.com"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestMemoryLedger_Reserve(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Create(ctx, newAccount("u1", "a@example.com", 15)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ledger.Reserve(ctx, "u1", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	acc, _ := ledger.FindByID(ctx, "u1")
	if acc.Balance != 5 {
		t.Errorf("expected balance 5, got %d", acc.Balance)
	}

	// Not enough left for another reservation; balance must not change.
	if err := ledger.Reserve(ctx, "u1", 10); !errors.Is(err, ErrInsufficientCredit) {
		t.Fatalf("expected ErrInsufficientCredit, got %v", err)
	}
	acc, _ = ledger.FindByID(ctx, "u1")
	if acc.Balance != 5 {
		t.Errorf("denied reservation mutated balance: %d", acc.Balance)
	}
}

func TestMemoryLedger_ReserveDeniesAtZero(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Create(ctx, newAccount("u1", "a@example.com", 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ledger.Reserve(ctx, "u1", 1); !errors.Is(err, ErrInsufficientCredit) {
		t.Fatalf("expected ErrInsufficientCredit, got %v", err)
	}
}

func TestMemoryLedger_ReserveInvalidAmount(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Create(ctx, newAccount("u1", "a@example.com", 10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ledger.Reserve(ctx, "u1", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := ledger.Refund(ctx, "u1", -3); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestMemoryLedger_Refund(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Create(ctx, newAccount("u1", "a@example.com", 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ledger.Refund(ctx, "u1", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	acc, _ := ledger.FindByID(ctx, "u1")
	if acc.Balance != 15 {
		t.Errorf("expected balance 15, got %d", acc.Balance)
	}
}

func TestMemoryLedger_SetBalance(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Create(ctx, newAccount("u1", "a@example.com", 5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ledger.SetBalance(ctx, "u1", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	acc, _ := ledger.FindByID(ctx, "u1")
	if acc.Balance != 100 {
		t.Errorf("expected balance 100, got %d", acc.Balance)
	}

	if err := ledger.SetBalance(ctx, "u1", -1); !errors.Is(err, ErrNegativeBalance) {
		t.Fatalf("expected ErrNegativeBalance, got %v", err)
	}
	if err := ledger.SetBalance(ctx, "nope", 10); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

// Two concurrent reservations against a single remaining credit must
// produce exactly one success and one denial, never two successes.
func TestMemoryLedger_ConcurrentReserveLastCredit(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Create(ctx, newAccount("u1", "a@example.com", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const attempts = 2
	var successes, denials atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := ledger.Reserve(ctx, "u1", 1)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrInsufficientCredit):
				denials.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if successes.Load() != 1 || denials.Load() != 1 {
		t.Errorf("expected 1 success and 1 denial, got %d/%d", successes.Load(), denials.Load())
	}

	acc, _ := ledger.FindByID(ctx, "u1")
	if acc.Balance != 0 {
		t.Errorf("expected balance 0, got %d", acc.Balance)
	}
}

// Heavier interleaving: many concurrent reserves against a small balance
// must never drive it negative.
func TestMemoryLedger_BalanceNeverNegative(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Create(ctx, newAccount("u1", "a@example.com", 7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	var granted atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Reserve(ctx, "u1", 2); err == nil {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	acc, _ := ledger.FindByID(ctx, "u1")
	if acc.Balance < 0 {
		t.Fatalf("balance went negative: %d", acc.Balance)
	}
	if got := int(granted.Load()); got != 3 {
		t.Errorf("expected 3 granted reservations from balance 7 at cost 2, got %d", got)
	}
	if acc.Balance != 1 {
		t.Errorf("expected remainder 1, got %d", acc.Balance)
	}
}
