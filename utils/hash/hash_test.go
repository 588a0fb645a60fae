package hash

import (
	"errors"
	"testing"
)

func TestSumBeforeInit(t *testing.T) {
	// runs before any Init in this package
	if initialized.Load() {
		t.Skip("hash already initialized")
	}
	if _, err := Sum("a", 0); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestSum(t *testing.T) {
	Init()
	Init()

	a1, err := Sum("button", 0)
	if err != nil {
		t.Fatalf("Sum() error: %v", err)
	}
	a2, _ := Sum("button", 0)
	if a1 != a2 {
		t.Errorf("Sum() is not deterministic: %q != %q", a1, a2)
	}
	if len(a1) != 8 {
		t.Errorf("expected 8 characters, got %q", a1)
	}
	for _, c := range a1 {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			t.Errorf("unexpected character %q in %q", c, a1)
		}
	}

	b, _ := Sum("button", 1)
	if a1 == b {
		t.Errorf("seed does not change hash: %q", a1)
	}
	c, _ := Sum("buttons", 0)
	if a1 == c {
		t.Errorf("different values produced same hash: %q", a1)
	}
}
