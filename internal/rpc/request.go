package rpc

import (
	"sync"

	"github.com/godbus/dbus/v5"
)

const requestIface = "org.freedesktop.impl.portal.Request"

// Request is the per-call object bound at the caller-supplied handle path
// (§6.2): created at the start of each CreateSession, Screenshot,
// PickColor and AccessDialog call (SelectSources, SelectDevices and
// Start bind none), destroyed on call completion or by the caller invoking its
// Close method. Grounded on the original's RequestInterface (request.rs),
// whose sole method removes itself from the object server.
type Request struct {
	exporter Exporter
	path     dbus.ObjectPath

	mu        sync.Mutex
	closed    bool
	cancelled chan struct{}
}

// NewRequest binds a Request at path and exports it immediately.
func NewRequest(exporter Exporter, path dbus.ObjectPath) (*Request, error) {
	r := &Request{
		exporter:  exporter,
		path:      path,
		cancelled: make(chan struct{}),
	}
	if err := exporter.Export(r, path, requestIface); err != nil {
		return nil, err
	}
	return r, nil
}

// Close is the Request interface's sole D-Bus method: unexport self and
// signal cancellation to whatever RPC handler is still waiting on it.
func (r *Request) Close() *dbus.Error {
	r.release()
	return nil
}

// Release tears the Request down from the dispatcher side (call
// completion), identical in effect to the caller invoking Close.
func (r *Request) Release() {
	r.release()
}

func (r *Request) release() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.cancelled)
	r.mu.Unlock()

	r.exporter.Unexport(r.path, requestIface)
}

// Cancelled is closed once the request has been closed, either by the
// caller or by the dispatcher on call completion.
func (r *Request) Cancelled() <-chan struct{} {
	return r.cancelled
}
