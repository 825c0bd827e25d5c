package transport_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosaic-network/mosaic-server/internal/transport"
)

func TestTCPSendReceiveRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	serverTC := transport.NewTCP(server)
	clientTC := transport.NewTCP(client)

	done := make(chan error, 1)
	go func() {
		done <- clientTC.Send(context.Background(), []byte("ping"))
	}()

	got, err := serverTC.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), got)
	require.NoError(t, <-done)
}

func TestTCPReceiveHonorsDeadline(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	serverTC := transport.NewTCP(server)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := serverTC.Receive(ctx)
	assert.Error(t, err)
}

func TestQUICTransportIsUnimplemented(t *testing.T) {
	var q transport.QUIC
	_, err := q.Receive(context.Background())
	assert.Error(t, err)
	assert.Error(t, q.Send(context.Background(), nil))
	assert.Error(t, q.Close())
}
