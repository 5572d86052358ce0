// Package codegen produces random short-code candidates.
package codegen

import (
	"crypto/rand"
	"math/big"
)

// Alphabet is the full base62 character set used for generated codes.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultLength is the length of generated short codes.
const DefaultLength = 7

// Generator produces short-code candidates. Implementations must be safe
// for concurrent use.
type Generator interface {
	Generate() (string, error)
}

// RandomGenerator draws codes uniformly from Alphabet using crypto/rand,
// so codes are not guessable in sequence.
type RandomGenerator struct {
	length int
}

// NewRandomGenerator returns a generator for codes of the given length
// (DefaultLength when length <= 0).
func NewRandomGenerator(length int) *RandomGenerator {
	if length <= 0 {
		length = DefaultLength
	}
	return &RandomGenerator{length: length}
}

// Generate returns a new random code.
func (g *RandomGenerator) Generate() (string, error) {
	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, g.length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Length returns the configured code length.
func (g *RandomGenerator) Length() int {
	return g.length
}

var _ Generator = (*RandomGenerator)(nil)
