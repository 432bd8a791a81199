package game

import (
	"math/rand"
	"sort"
	"testing"
)

func TestShufflePermutes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"cat", "dog", "bird", "fish", "frog"}

	got := Shuffle(rng, words)
	if len(got) != len(words) {
		t.Fatalf("Shuffle() len = %d, want %d", len(got), len(words))
	}
	sorted := append([]string{}, got...)
	sort.Strings(sorted)
	want := append([]string{}, words...)
	sort.Strings(want)
	for i := range want {
		if sorted[i] != want[i] {
			t.Fatalf("Shuffle() = %v, not a permutation of %v", got, words)
		}
	}
	if words[0] != "cat" || words[4] != "frog" {
		t.Errorf("Shuffle() mutated its input: %v", words)
	}
}

func TestDraw(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	t.Run("empty pool", func(t *testing.T) {
		word, rest := Draw(rng, nil)
		if word != "" {
			t.Errorf("Draw(nil) word = %q, want empty", word)
		}
		if rest == nil || len(rest) != 0 {
			t.Errorf("Draw(nil) rest = %v, want empty slice", rest)
		}
	})

	t.Run("draws without replacement", func(t *testing.T) {
		pool := []string{"a", "b", "c", "d"}
		seen := map[string]bool{}
		for len(pool) > 0 {
			var w string
			w, pool = Draw(rng, pool)
			if seen[w] {
				t.Fatalf("Draw() returned %q twice", w)
			}
			seen[w] = true
		}
		if len(seen) != 4 {
			t.Errorf("drew %d distinct words, want 4", len(seen))
		}
	})

	t.Run("duplicates are independent", func(t *testing.T) {
		pool := []string{"echo", "echo"}
		w1, pool := Draw(rng, pool)
		w2, pool := Draw(rng, pool)
		if w1 != "echo" || w2 != "echo" || len(pool) != 0 {
			t.Errorf("got %q, %q, rest %v", w1, w2, pool)
		}
	})

	t.Run("input untouched", func(t *testing.T) {
		pool := []string{"x", "y", "z"}
		_, rest := Draw(rng, pool)
		if len(pool) != 3 || len(rest) != 2 {
			t.Errorf("pool = %v, rest = %v", pool, rest)
		}
	})
}
