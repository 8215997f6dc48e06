package secret

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// NewToken returns a URL-safe token with 256 bits of entropy, used for
// verification links and tenant access tokens.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes failed: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewPassword returns a random password drawn from an unambiguous alphabet.
func NewPassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random index failed: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}

	return string(out), nil
}
