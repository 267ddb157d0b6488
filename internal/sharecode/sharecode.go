// Package sharecode generates the random codes handed to catalog viewers.
package sharecode

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultLength is the code length used for issued share codes.
const DefaultLength = 8

// Generate returns a random code of the given length drawn from A-Z0-9.
// Codes guard semi-private catalog data, so the source is crypto/rand.
// Uniqueness is the caller's job: check the store and regenerate on
// collision.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
