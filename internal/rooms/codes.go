package rooms

import (
	"crypto/rand"
	"io"
	"math/big"
)

// Alphabet excludes look-alike characters: 0, O, 1, I, L
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 4

// GenerateCode returns a random room code players can read out to each other.
func GenerateCode() (string, error) {
	return generateCode(rand.Reader, codeLength)
}

func generateCode(src io.Reader, n int) (string, error) {
	limit := big.NewInt(int64(len(alphabet)))
	code := make([]byte, n)
	for i := range code {
		idx, err := rand.Int(src, limit)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[idx.Int64()]
	}
	return string(code), nil
}
