package deck

import (
	"crypto/rand"
	"math/big"
)

// randBelow returns a uniform random int in [0, n) from crypto/rand.
// Shuffles decide game outcomes, so a time-seeded PRNG is not acceptable.
func randBelow(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing means the OS entropy source is broken;
		// there is no sane way to continue dealing cards.
		panic("deck: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}

// secureShuffle permutes cards in place with a Fisher-Yates walk.
func secureShuffle(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := randBelow(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
