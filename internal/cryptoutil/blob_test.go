package cryptoutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-network/mosaic-server/internal/cryptoutil"
)

func TestEncryptDecryptBlobRoundTrip(t *testing.T) {
	key, err := cryptoutil.Generate(32)
	require.NoError(t, err)

	plaintext := []byte("identity key material")
	blob, err := cryptoutil.EncryptBlob(key, plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, blob)

	decrypted, err := cryptoutil.DecryptBlob(key, blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecryptBlobRejectsTamperedCiphertext(t *testing.T) {
	key, err := cryptoutil.Generate(32)
	require.NoError(t, err)
	blob, err := cryptoutil.EncryptBlob(key, []byte("secret"))
	require.NoError(t, err)
	blob[len(blob)-1] ^= 0xff

	_, err = cryptoutil.DecryptBlob(key, blob)
	assert.Error(t, err)
}

func TestDeriveHKDFIsDeterministicAndContextSeparated(t *testing.T) {
	master := []byte("master-key-material-32-bytes!!!")
	a, err := cryptoutil.DeriveHKDF(master, "ctx-a", 32)
	require.NoError(t, err)
	b, err := cryptoutil.DeriveHKDF(master, "ctx-a", 32)
	require.NoError(t, err)
	c, err := cryptoutil.DeriveHKDF(master, "ctx-b", 32)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
