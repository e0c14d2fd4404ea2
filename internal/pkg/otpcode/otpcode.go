// Package otpcode generates fixed-length numeric verification codes.
package otpcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generate draws a uniform random integer in [0, 10^length) from crypto/rand
// and renders it as a zero-padded decimal string of exactly length digits.
func Generate(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}
	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
