package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("pw123456")
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	if hash == "pw123456" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}

	if err := h.Compare(hash, "pw123456"); err != nil {
		t.Errorf("expected password to match, got %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestNewBcryptHasher_InvalidCost(t *testing.T) {
	if h := NewBcryptHasher(99); h.Cost != DefaultCost {
		t.Errorf("expected default cost %d, got %d", DefaultCost, h.Cost)
	}
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	h := NewBcryptHasher(4)

	if _, err := h.Hash(strings.Repeat("p", MaxPasswordBytes)); err != nil {
		t.Fatalf("expected %d-byte password to hash, got %v", MaxPasswordBytes, err)
	}
	if _, err := h.Hash(strings.Repeat("p", MaxPasswordBytes+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}
