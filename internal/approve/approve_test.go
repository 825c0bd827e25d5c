package approve_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mosaic-network/mosaic-server/internal/approve"
)

func addr(host string) net.Addr {
	return &net.TCPAddr{IP: net.ParseIP(host), Port: 1234}
}

func TestAllowAllApprovesEverything(t *testing.T) {
	var a approve.AllowAll
	assert.True(t, a.Approve(addr("10.0.0.1")))
}

func TestDenyListRejectsDeniedHosts(t *testing.T) {
	d := approve.NewDenyList("10.0.0.1")
	assert.False(t, d.Approve(addr("10.0.0.1")))
	assert.True(t, d.Approve(addr("10.0.0.2")))

	d.Allow("10.0.0.1")
	assert.True(t, d.Approve(addr("10.0.0.1")))

	d.Deny("10.0.0.2")
	assert.False(t, d.Approve(addr("10.0.0.2")))
}
