package mosaic

import (
	"crypto/ed25519"
	"net"
)

// Approver decides whether a connecting peer is allowed onto the
// server at all, before HELLO is even read. It is the server's only
// point of access control, per this module's scope.
type Approver interface {
	Approve(remote net.Addr) bool
}

// Logger receives one call per connection-scoped error the driver or
// handler decides is worth surfacing: store failures, submission
// validation failures, undecodable frames, and anything the transport
// itself reports as abnormal.
type Logger interface {
	LogClientError(err error, remote net.Addr, peer ed25519.PublicKey)
}

// ServerConfig bundles everything a Server needs to run: its identity
// key, the address to bind, and the two capability interfaces above
// plus the record Store.
type ServerConfig struct {
	SecretKey  ed25519.PrivateKey
	ListenAddr string
	Approver   Approver
	Logger     Logger
	Store      Store
}
