// Package credit provides user accounts and the credit ledger that gates
// generation submissions. Every submission reserves its cost up front with
// a single conditional decrement, so two concurrent submissions can never
// both pass authorization on the last credit.
package credit

import (
	"context"
	"errors"
	"time"
)

// Static errors for ledger operations.
var (
	// ErrInsufficientCredit is returned when a reservation would take the
	// balance below zero. No provider call is made in that case.
	ErrInsufficientCredit = errors.New("credit: insufficient credit")
	// ErrAccountNotFound is returned when no account exists for the ID or
	// email.
	ErrAccountNotFound = errors.New("credit: account not found")
	// ErrEmailTaken is returned when an account already exists for the email.
	ErrEmailTaken = errors.New("credit: email already registered")
	// ErrNegativeBalance is returned when a balance write would store a
	// negative value.
	ErrNegativeBalance = errors.New("credit: balance cannot be negative")
	// ErrInvalidAmount is returned when a reserve or refund amount is not
	// positive.
	ErrInvalidAmount = errors.New("credit: amount must be positive")
)

// Account is a user account with a spendable credit balance.
type Account struct {
	// ID is the unique account identifier.
	ID string
	// Email is the login email, unique across accounts.
	Email string
	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string
	// IsAdmin grants administrative access.
	IsAdmin bool
	// Balance is the current credit balance. Never negative.
	Balance int
	// CreatedAt is when the account was created.
	CreatedAt time.Time
}

// Ledger defines account storage and the credit gate around submissions.
//
// Reserve and Refund are the only mutations the generation flows perform:
// a submission reserves its cost before the provider is called, a
// successful outcome keeps the reservation, and a failed or timed-out
// outcome refunds it.
type Ledger interface {
	// Create adds a new account with the given initial balance.
	// Returns ErrEmailTaken if the email is already registered.
	Create(ctx context.Context, acc *Account) error

	// FindByID retrieves an account by ID.
	// Returns ErrAccountNotFound if the account does not exist.
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindByEmail retrieves an account by email.
	// Returns ErrAccountNotFound if the account does not exist.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// SetBalance overwrites the balance. Used by the admin balance-set
	// operation, not by generation flows.
	SetBalance(ctx context.Context, id string, balance int) error

	// Reserve debits amount from the balance as one atomic conditional
	// update. Returns ErrInsufficientCredit without mutating anything
	// when the balance is smaller than amount.
	Reserve(ctx context.Context, id string, amount int) error

	// Refund returns amount to the balance.
	Refund(ctx context.Context, id string, amount int) error
}
