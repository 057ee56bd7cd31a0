package session

import (
	"crypto/rand"
	"math/big"
)

// TokenLength is the length of generated session identifiers.
const TokenLength = 32

const base58 = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// SecureToken generates a random base58 token of the given length.
func SecureToken(length int) string {
	token := make([]byte, length)
	max := big.NewInt(int64(len(base58)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err) // crypto/rand never fails on supported platforms
		}
		token[i] = base58[n.Int64()]
	}

	return string(token)
}
