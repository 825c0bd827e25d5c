package mosaic

import "net"

// ClientData is the per-connection session state the handler accumulates
// as a client progresses through HELLO, SUBMISSION and GET. It is never
// shared across connections: each connection driver owns exactly one.
type ClientData struct {
	RemoteAddress net.Addr

	// Peer is the transport-authenticated peer key, set by the
	// connection driver once the underlying transport has identified
	// its remote side. It is distinct from a submitted record's
	// signing key: the TCP stand-in transport performs no peer
	// authentication, so Peer stays nil there.
	Peer []byte

	// MosaicVersion and Applications are set by a successful HELLO and
	// are nil until then. SUBMISSION and GET require a completed HELLO,
	// which Handshaked detects from MosaicVersion alone: Applications
	// stays nil after a HELLO that accepted no application ids.
	MosaicVersion *uint16
	Applications  []uint32

	// ClosingResult, once set, is the ResultCode the connection driver
	// will send in a CLOSING frame before tearing the connection down.
	// It is distinct from a per-message result code: setting it marks
	// the connection itself as done, not just one exchange.
	ClosingResult *ResultCode
}

// Handshaked reports whether this connection has completed HELLO.
func (c *ClientData) Handshaked() bool {
	return c.MosaicVersion != nil
}

// RequestClose marks the connection for closure with the given code,
// ignoring a second call so the first violation found wins.
func (c *ClientData) RequestClose(code ResultCode) {
	if c.ClosingResult != nil {
		return
	}
	c.ClosingResult = &code
}
