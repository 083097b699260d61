//go:build linux

package rpc

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/eis"
)

// newEmulatedInputSocket creates a connected socket pair: one end is
// handed to the Input Event Server as a Listener, the other is
// duplicated back to the caller as the fd ConnectToEIS returns (§6.6).
// The wire protocol spoken over that fd belongs to the external
// libei-compatible client library (§4.E, §6.6); this only establishes
// the channel and keeps it alive until the session removes its listener.
var newEmulatedInputSocket = func() (eis.Listener, int, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, -1, fmt.Errorf("rpc: create eis socketpair: %w", err)
	}
	return &socketListener{fd: fds[0]}, fds[1], nil
}

type socketListener struct {
	fd       int
	accepted bool
	closed   chan struct{}
}

func (l *socketListener) Accept() (eis.ClientConn, error) {
	if l.closed == nil {
		l.closed = make(chan struct{})
	}
	if l.accepted {
		<-l.closed
		return nil, fmt.Errorf("rpc: eis listener closed")
	}
	l.accepted = true
	return &socketConn{fd: l.fd, closed: l.closed}, nil
}

func (l *socketListener) Close() error {
	if l.closed != nil {
		select {
		case <-l.closed:
		default:
			close(l.closed)
		}
	}
	return unix.Close(l.fd)
}

type socketConn struct {
	fd     int
	closed chan struct{}
}

// NextEvent blocks until the listener is closed: decoding the libei wire
// protocol is the external client library's job (§6.6).
func (c *socketConn) NextEvent() (eis.ClientEvent, bool, error) {
	<-c.closed
	return eis.ClientEvent{}, false, nil
}

func (c *socketConn) Close() error { return nil }
