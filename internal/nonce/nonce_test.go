package nonce

import (
	"strings"
	"testing"
)

func TestNewLength(t *testing.T) {
	for i := 0; i < 100; i++ {
		if got := New(); len(got) != 32 {
			t.Fatalf("expected 32 characters, got %d (%q)", len(got), got)
		}
	}
}

func TestNewAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := New()
		for _, c := range n {
			if !strings.ContainsRune(alphabet, c) {
				t.Fatalf("nonce %q contains %q outside the alphanumeric alphabet", n, c)
			}
		}
	}
}
