package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// TokenLength is the number of characters in a token identifier.
const TokenLength = 20

var ErrInvalidLength = errors.New("length must be a positive number")

// RandomString returns a string of exactly n characters drawn uniformly
// from the lowercase alphanumeric alphabet. The characters come from
// crypto/rand: these strings travel as bearer credentials, so they must
// not be guessable within a token's validity window.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", ErrInvalidLength
	}

	max := big.NewInt(int64(len(tokenAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("reading random source: %w", err)
		}
		out[i] = tokenAlphabet[idx.Int64()]
	}

	return string(out), nil
}
