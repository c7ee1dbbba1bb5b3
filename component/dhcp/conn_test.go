package dhcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDial(t *testing.T) {
	srv, err := net.ListenPacket("udp4", "127.0.0.1:0")
	assert.NoError(t, err)
	defer srv.Close()
	port := srv.LocalAddr().(*net.UDPAddr).Port

	conn, err := dial(context.Background(), "127.0.0.1", "127.0.0.1", 0, port)
	assert.NoError(t, err)
	defer conn.Close()

	laddr := conn.LocalAddr().(*net.UDPAddr)
	assert.NotNil(t, laddr.IP.To4())

	// the connected socket needs no destination per send
	_, err = conn.Write([]byte("ping"))
	assert.NoError(t, err)

	buf := make([]byte, 16)
	srv.SetReadDeadline(time.Now().Add(time.Second))
	n, addr, err := srv.ReadFrom(buf)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, laddr.Port, addr.(*net.UDPAddr).Port)
}

func TestDial_WildcardLocal(t *testing.T) {
	srv, err := net.ListenPacket("udp4", "127.0.0.1:0")
	assert.NoError(t, err)
	defer srv.Close()
	port := srv.LocalAddr().(*net.UDPAddr).Port

	conn, err := dial(context.Background(), "", "127.0.0.1", 0, port)
	assert.NoError(t, err)
	defer conn.Close()

	// connecting fixes the source address even for a wildcard bind
	assert.NotNil(t, conn.LocalAddr().(*net.UDPAddr).IP.To4())
}

func TestDial_UnresolvableLocal(t *testing.T) {
	_, err := dial(context.Background(), "host.invalid", "127.0.0.1", 0, ServerPort)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "local address host.invalid")
}

func TestDial_UnresolvableServer(t *testing.T) {
	_, err := dial(context.Background(), "", "host.invalid", 0, ServerPort)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server host.invalid")
}
