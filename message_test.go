package mosaic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mosaic "github.com/mosaic-network/mosaic-server"
)

func TestHelloApplicationsRoundTrip(t *testing.T) {
	m := mosaic.NewHello(0, []uint32{0, 5, 9})
	decoded, err := mosaic.DecodeMessage(m.AsBytes())
	require.NoError(t, err)
	apps, err := mosaic.DecodeHelloApplications(decoded.Body())
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 5, 9}, apps)
}

func TestDecodeHelloApplicationsRejectsMisalignedBody(t *testing.T) {
	_, err := mosaic.DecodeHelloApplications([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestGetRoundTrip(t *testing.T) {
	var ref mosaic.Reference
	fillTestBytes(ref[:])
	m := mosaic.NewGet(7, []mosaic.Reference{ref})
	decoded, err := mosaic.DecodeMessage(m.AsBytes())
	require.NoError(t, err)
	queryID, refs, err := mosaic.DecodeGet(decoded)
	require.NoError(t, err)
	assert.Equal(t, mosaic.QueryID(7), queryID)
	require.Len(t, refs, 1)
	assert.Equal(t, ref, refs[0])
}

func TestSubmissionResultRoundTrip(t *testing.T) {
	var id mosaic.ID
	fillTestBytes(id[:])
	m := mosaic.NewSubmissionResult(id, mosaic.ResultCodeAccepted)
	decoded, err := mosaic.DecodeMessage(m.AsBytes())
	require.NoError(t, err)
	gotID, code, err := mosaic.DecodeSubmissionResult(decoded)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, mosaic.ResultCodeAccepted, code)
}

func fillTestBytes(b []byte) {
	for i := range b {
		b[i] = byte(i)
	}
}

func TestDecodeMessageRejectsLengthMismatch(t *testing.T) {
	m := mosaic.NewHello(0, nil)
	raw := append([]byte{}, m.AsBytes()...)
	raw = append(raw, 0xff) // trailing byte not reflected in the length header
	_, err := mosaic.DecodeMessage(raw)
	assert.Error(t, err)
}
