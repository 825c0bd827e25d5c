// Package approve provides Approver implementations: the server's only
// point of access control, consulted once per accepted connection
// before HELLO is read.
package approve

import (
	"net"
	"sync"
)

// AllowAll approves every connection. It is the Approver cmd/mosaicd
// runs with.
type AllowAll struct{}

func (AllowAll) Approve(net.Addr) bool { return true }

// DenyList rejects connections from a configured set of hosts,
// identified by the host portion of their remote address (so a port
// change doesn't require reconfiguring the list). Safe for concurrent
// use: Deny and Allow may be called while connections are being approved.
type DenyList struct {
	mu     sync.RWMutex
	denied map[string]struct{}
}

// NewDenyList builds a DenyList rejecting the given hosts.
func NewDenyList(hosts ...string) *DenyList {
	d := &DenyList{denied: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		d.denied[h] = struct{}{}
	}
	return d
}

func (d *DenyList) Approve(remote net.Addr) bool {
	host, _, err := net.SplitHostPort(remote.String())
	if err != nil {
		host = remote.String()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, denied := d.denied[host]
	return !denied
}

// Deny adds a host to the deny list.
func (d *DenyList) Deny(host string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.denied[host] = struct{}{}
}

// Allow removes a host from the deny list.
func (d *DenyList) Allow(host string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.denied, host)
}
