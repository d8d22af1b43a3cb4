package auth

import (
	"errors"
	"testing"
	"time"
)

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager("")
	if !errors.Is(err, ErrSecretRequired) {
		t.Fatalf("expected ErrSecretRequired, got %v", err)
	}
}

func TestManager_IssueAndVerify(t *testing.T) {
	m, err := NewManager("test-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := m.Issue("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("expected user-1, got %q", claims.UserID)
	}
	if claims.Email != "a@example.com" {
		t.Errorf("expected a@example.com, got %q", claims.Email)
	}
}

func TestManager_VerifyWrongSecret(t *testing.T) {
	issuer, err := NewManager("secret-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	verifier, err := NewManager("secret-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := issuer.Issue("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestManager_VerifyGarbage(t *testing.T) {
	m, err := NewManager("test-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestManager_VerifyExpired(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt

	m, err := NewManager("test-secret",
		WithTokenTTL(time.Hour),
		WithClock(func() time.Time { return clock }),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := m.Issue("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Still valid just before expiry.
	clock = issuedAt.Add(59 * time.Minute)
	if _, err := m.Verify(token); err != nil {
		t.Fatalf("unexpected error before expiry: %v", err)
	}

	clock = issuedAt.Add(2 * time.Hour)
	if _, err := m.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("expected mismatched password to fail")
	}
}
