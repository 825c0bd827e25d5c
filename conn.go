package mosaic

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/mosaic-network/mosaic-server/internal/transport"
)

// connTimeout bounds how long a single Send or Receive may block, so a
// silent peer can't pin a goroutine forever.
const connTimeout = 2 * time.Minute

// driveConnection runs the full per-connection lifecycle: an approval
// check, then a read-dispatch-reply loop until the peer disconnects or
// a handler requests the connection be closed.
func (s *Server) driveConnection(tc transport.Transport) {
	remote := tc.RemoteAddr()
	defer tc.Close()

	if s.cfg.Approver != nil && !s.cfg.Approver.Approve(remote) {
		return
	}

	client := &ClientData{RemoteAddress: remote}

	for {
		ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
		raw, err := tc.Receive(ctx)
		cancel()
		if err != nil {
			if !isBoringCloseError(err) && s.cfg.Logger != nil {
				s.cfg.Logger.LogClientError(NewError(KindTransport, err), remote, client.Peer)
			}
			return
		}

		m, err := DecodeMessage(raw)
		if err != nil {
			if s.cfg.Logger != nil {
				s.cfg.Logger.LogClientError(NewError(KindGeneral, err), remote, client.Peer)
			}
			return
		}

		replies, err := HandleMosaicMessage(context.Background(), m, client, s.cfg.Store, s.cfg.Logger)
		if err != nil {
			if s.cfg.Logger != nil {
				s.cfg.Logger.LogClientError(err, remote, client.Peer)
			}
			return
		}

		for _, reply := range replies {
			ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
			err := tc.Send(ctx, reply.AsBytes())
			cancel()
			if err != nil {
				if !isBoringCloseError(err) && s.cfg.Logger != nil {
					s.cfg.Logger.LogClientError(NewError(KindTransport, err), remote, client.Peer)
				}
				return
			}
		}

		if client.ClosingResult != nil {
			ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
			tc.Send(ctx, NewClosing(*client.ClosingResult).AsBytes())
			cancel()
			return
		}
	}
}

// isBoringCloseError reports whether err is just the ordinary shape of
// a peer hanging up, which isn't worth logging at error level.
func isBoringCloseError(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return false
	}
	return false
}
