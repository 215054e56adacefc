package rng

import (
	"crypto/rand"
	"math/big"
)

// Crypto generates random numbers from crypto/rand. It backs production
// shuffles; tests and replays use Seeded instead.
type Crypto struct{}

// Intn returns a random number in [0, n)
func (c Crypto) Intn(n int) int {
	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}
