package cryptoutil

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveHKDF expands master into n context-separated bytes.
func DeriveHKDF(master []byte, context string, n int) ([]byte, error) {
	r := hkdf.New(sha256.New, master, nil, []byte(context))
	out := make([]byte, n)
	_, err := io.ReadFull(r, out)
	return out, err
}
