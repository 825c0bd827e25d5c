package cryptoutil

import "crypto/rand"

// Generate returns n cryptographically random bytes, used for a fresh
// local key-encryption key.
func Generate(n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := rand.Read(buf)
	return buf, err
}
