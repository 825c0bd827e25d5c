package mosaic_test

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mosaic "github.com/mosaic-network/mosaic-server"
)

func TestRecordRoundTrip(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	rec, err := mosaic.NewRecord(priv, mosaic.RecordParts{
		Kind:      3,
		Timestamp: time.Now().UnixMicro(),
		Tags:      [][]byte{[]byte("a"), []byte("bb")},
		Payload:   []byte("payload"),
	})
	require.NoError(t, err)

	decoded, err := mosaic.RecordFromBytes(rec.Bytes())
	require.NoError(t, err)
	assert.Equal(t, rec.ID(), decoded.ID())
	assert.Equal(t, rec.Payload, decoded.Payload)
	assert.Equal(t, rec.Tags, decoded.Tags)
}

func TestRecordTamperedSignatureRejected(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	rec, err := mosaic.NewRecord(priv, mosaic.RecordParts{Timestamp: 1, Payload: []byte("x")})
	require.NoError(t, err)

	tampered := append([]byte{}, rec.Bytes()...)
	tampered[len(tampered)-1] ^= 0xff

	_, err = mosaic.RecordFromBytes(tampered)
	assert.Error(t, err)
}

func TestRecordTooLongRejected(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	rec, err := mosaic.NewRecord(priv, mosaic.RecordParts{
		Timestamp: 1,
		Payload:   make([]byte, mosaic.MaxRecordBytes),
	})
	require.NoError(t, err)

	_, err = mosaic.RecordFromBytes(rec.Bytes())
	assert.ErrorIs(t, err, mosaic.ErrRecordTooLong)
}

func TestIDIsDeterministicAndReferenceDiffersFromID(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	rec, err := mosaic.NewRecord(priv, mosaic.RecordParts{Timestamp: 1, Payload: []byte("x")})
	require.NoError(t, err)

	id1 := rec.ID()
	decoded, err := mosaic.RecordFromBytes(rec.Bytes())
	require.NoError(t, err)
	assert.Equal(t, id1, decoded.ID())

	ref, err := rec.Reference()
	require.NoError(t, err)
	assert.NotEqual(t, ref[:], id1[:])
}
