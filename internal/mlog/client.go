package mlog

import (
	"crypto/ed25519"
	"encoding/hex"
	"net"
)

// ClientLogger implements the server's Logger capability: one structured
// log line per connection-scoped error, with the peer's address and
// (once known) public key attached as fields.
type ClientLogger struct{}

// LogClientError records err against the connection it came from. It
// always logs at Error level: filtering which errors are worth a
// human's attention (the way the original example server filtered
// benign transport-close errors) is the connection driver's job, not
// the logger's — by the time an error reaches here it has already been
// judged worth reporting.
func (ClientLogger) LogClientError(err error, remote net.Addr, peer ed25519.PublicKey) {
	ev := Logger.Error().Err(err)
	if remote != nil {
		ev = ev.Str("remote_addr", remote.String())
	}
	if len(peer) > 0 {
		ev = ev.Str("peer", hex.EncodeToString(peer))
	} else {
		ev = ev.Str("peer", "anonymous")
	}
	ev.Msg("client error")
}
