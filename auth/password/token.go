package password

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateToken returns n random bytes hex-encoded, so the result is 2n
// characters long. Reset tokens use it.
func GenerateToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("password: token length must be positive (got: %d)", n)
	}
	buf, err := generateRandomBytes(n)
	if err != nil {
		return "", fmt.Errorf("password: generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func generateRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
