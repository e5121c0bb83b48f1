package id_test

import (
	"testing"

	"github.com/alphalever/backend/internal/id"
)

func TestGenerateID(t *testing.T) {
	got := id.GenerateID()
	if len(got) != 16 {
		t.Errorf("expected 16 characters, got %d (%q)", len(got), got)
	}
	for _, r := range got {
		if !(r >= 'a' && r <= 'f' || r >= '0' && r <= '9') {
			t.Errorf("unexpected character %q in %q", r, got)
		}
	}
}

func TestGenerateID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		v := id.GenerateID()
		if seen[v] {
			t.Fatalf("duplicate id %q after %d draws", v, i)
		}
		seen[v] = true
	}
}
