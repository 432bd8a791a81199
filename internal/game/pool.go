package game

import (
	"crypto/rand"
	"math/big"
)

// Rand is the randomness the word pool needs. *math/rand.Rand satisfies it,
// which lets tests pin a seed.
type Rand interface {
	Intn(n int) int
}

// cryptoRand draws indexes from crypto/rand.
type cryptoRand struct{}

func (cryptoRand) Intn(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}

// Shuffle returns a uniformly random permutation of words (Fisher–Yates).
// The input slice is left untouched.
func Shuffle(rng Rand, words []string) []string {
	out := make([]string, len(words))
	copy(out, words)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Draw removes one uniformly random word from pool.
// An empty pool yields ("", []string{}); callers treat "" as "no words left".
func Draw(rng Rand, pool []string) (string, []string) {
	if len(pool) == 0 {
		return "", []string{}
	}
	i := rng.Intn(len(pool))
	rest := make([]string, 0, len(pool)-1)
	rest = append(rest, pool[:i]...)
	rest = append(rest, pool[i+1:]...)
	return pool[i], rest
}
