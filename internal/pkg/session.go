package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const sessionIDBytes = 16

// GenerateNewSessionID - generates a new unique URL safe session id.
func GenerateNewSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
