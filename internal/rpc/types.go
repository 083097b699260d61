// Package rpc implements the RPC Dispatcher (4.E): the D-Bus interfaces
// a sandboxed app talks to (Screenshot, ScreenCast, RemoteDesktop,
// InputCapture, Access, Settings), each method enforcing its per-call
// contract. Some methods bind a Request object per invocation (see
// request.go). Sessions live in the Session Registry only; no Session
// object is exported on the bus.
package rpc

import "github.com/godbus/dbus/v5"

// ResponseCode is the tri-state prefix every user-visible RPC result
// carries (§6.1): (response_code, dict).
type ResponseCode uint32

const (
	ResponseSuccess   ResponseCode = 0
	ResponseCancelled ResponseCode = 1
	ResponseOther     ResponseCode = 2
)

// dict is the a{sv} payload accompanying every response.
type dict = map[string]dbus.Variant

func v(x any) dbus.Variant { return dbus.MakeVariant(x) }

// ObjectPathBase is the single object path every portal interface is
// exported at (§6.1).
const ObjectPathBase dbus.ObjectPath = "/org/freedesktop/portal/desktop"
