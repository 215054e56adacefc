package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrypto_Intn(t *testing.T) {
	a := assert.New(t)

	c := Crypto{}
	found := make(map[int]bool)
	// could theoretically miss a value, but not in a thousand draws
	for i := 0; i < 1000; i++ {
		found[c.Intn(5)] = true
	}

	for i := 0; i < 5; i++ {
		a.True(found[i], "expected %d to be drawn", i)
	}
	a.False(found[5])
}
