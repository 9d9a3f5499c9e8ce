package words

import (
	"testing"

	"github.com/breach-party/backend/internal/engine"
)

func TestBuiltinDeck_CoversABoard(t *testing.T) {
	deck := BuiltinDeck()
	if len(deck) < engine.BoardSize {
		t.Fatalf("builtin deck has %d words, need at least %d", len(deck), engine.BoardSize)
	}

	seen := map[string]bool{}
	for _, w := range deck {
		if seen[w] {
			t.Fatalf("duplicate word %q in builtin deck", w)
		}
		seen[w] = true
	}
}

func TestBuiltinDeck_ReturnsACopy(t *testing.T) {
	a := BuiltinDeck()
	a[0] = "TAMPERED"
	if BuiltinDeck()[0] == "TAMPERED" {
		t.Fatalf("BuiltinDeck leaks the backing slice")
	}
}
