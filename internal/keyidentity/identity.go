// Package keyidentity manages the server's long-term Ed25519 identity:
// the key whose public half peers recognize the server by, generated
// once and persisted through internal/keyidentity/secretstore.
package keyidentity

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mosaic-network/mosaic-server/internal/keyidentity/secretstore"
)

const secretName = "identity-key"

// LoadOrGenerate returns the server's persisted identity key, generating
// and storing a new one in secretstore.Default when none can be read
// from it.
func LoadOrGenerate() (ed25519.PrivateKey, error) {
	if raw, err := secretstore.Default.Get(secretName); err == nil {
		if len(raw) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("stored identity key has wrong size %d", len(raw))
		}
		return ed25519.PrivateKey(raw), nil
	}

	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("generate identity key: %w", err)
	}
	if err := secretstore.Default.Put(secretName, priv); err != nil {
		return nil, fmt.Errorf("persist identity key: %w", err)
	}
	return priv, nil
}
