package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewTestHasher()
	password := []byte("Passw0rd")
	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "" {
		t.Fatal("Hash returned empty")
	}
	if err := h.Compare(hash, password); err != nil {
		t.Fatalf("Compare: %v", err)
	}
}

func TestHasher_CompareWrongPassword(t *testing.T) {
	h := NewTestHasher()
	hash, _ := h.Hash([]byte("Passw0rd"))
	if err := h.Compare(hash, []byte("wrong")); err == nil {
		t.Fatal("Compare with wrong password should fail")
	}
}

func TestHasher_Cost(t *testing.T) {
	if h := NewHasher(13); h.Cost != 13 {
		t.Errorf("Cost want 13, got %d", h.Cost)
	}
	if h := NewHasher(0); h.Cost != MinRefreshCost {
		t.Errorf("zero cost should select %d, got %d", MinRefreshCost, h.Cost)
	}
	if h := NewHasher(1); h.Cost != bcrypt.MinCost {
		t.Errorf("cost below bcrypt.MinCost should clamp, got %d", h.Cost)
	}
	if h := NewHasher(99); h.Cost != bcrypt.MaxCost {
		t.Errorf("cost above bcrypt.MaxCost should clamp, got %d", h.Cost)
	}
}
