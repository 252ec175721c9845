package krypto

import (
	"crypto/rand"
	"fmt"
)

// SecretMarker is a string we can look for in logs to see if the app
// is accidentally exposing secrets.
const SecretMarker = "<!SECRET_REDACTED!>"

func randBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}

	return b, nil
}
