// Package transport abstracts the byte-pipe a connection driver reads
// frames from and writes frames to. The real Mosaic transport is a
// stream-multiplexed, authenticated protocol and is explicitly out of
// scope for this server (see the module's non-goals); Transport exists
// so the rest of the server never depends on which concrete pipe is in
// use, and a stand-in can be swapped in without touching the protocol
// engine.
package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"
)

// Transport is a single logical connection to a peer: a place to send
// and receive length-framed byte messages.
type Transport interface {
	Send(ctx context.Context, data []byte) error
	Receive(ctx context.Context) ([]byte, error)
	RemoteAddr() net.Addr
	Close() error
}

// QUIC is a disabled placeholder for the real stream-multiplexed
// transport the protocol is designed around. It is not wired into the
// server: the module this server belongs to does not depend on a QUIC
// implementation, and every method here exists only to document the
// shape a real implementation would need to satisfy.
type QUIC struct{}

var errQUICUnimplemented = fmt.Errorf("quic transport is not implemented; see package doc")

func (QUIC) Send(context.Context, []byte) error          { return errQUICUnimplemented }
func (QUIC) Receive(context.Context) ([]byte, error)      { return nil, errQUICUnimplemented }
func (QUIC) RemoteAddr() net.Addr                         { return nil }
func (QUIC) Close() error                                 { return errQUICUnimplemented }

// TCP is a working stand-in transport used in place of the real
// multiplexed protocol: one TCP connection carries one logical stream,
// framed as a 4-byte big-endian length prefix followed by that many
// bytes. It exists so the server is runnable and testable end to end
// without a stream-multiplexing dependency.
type TCP struct {
	conn net.Conn
}

// NewTCP wraps an already-accepted net.Conn as a Transport.
func NewTCP(conn net.Conn) *TCP {
	return &TCP{conn: conn}
}

func (t *TCP) Send(ctx context.Context, data []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		t.conn.SetWriteDeadline(deadline)
		defer t.conn.SetWriteDeadline(time.Time{})
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := t.conn.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := t.conn.Write(data); err != nil {
		return fmt.Errorf("write frame body: %w", err)
	}
	return nil
}

func (t *TCP) Receive(ctx context.Context) ([]byte, error) {
	if deadline, ok := ctx.Deadline(); ok {
		t.conn.SetReadDeadline(deadline)
		defer t.conn.SetReadDeadline(time.Time{})
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(t.conn, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	body := make([]byte, n)
	if _, err := io.ReadFull(t.conn, body); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return body, nil
}

func (t *TCP) RemoteAddr() net.Addr { return t.conn.RemoteAddr() }

func (t *TCP) Close() error { return t.conn.Close() }
