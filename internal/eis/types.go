// Package eis implements the Input Event Server (4.F): a background
// thread with its own event loop, accepting client connections on
// listeners registered by the RPC Dispatcher and decoding their
// requests into InputEvent records for the matching session's Virtual
// Input Thread.
package eis

// DeviceCapability is the bitset a client's bind handshake advertises
// (§6.6) and the corresponding device entities the server creates.
type DeviceCapability uint64

const (
	CapPointer         DeviceCapability = 1 << iota
	CapPointerAbsolute
	CapKeyboard
	CapTouch
	CapScroll
	CapButton
)

// EventKind discriminates the InputEvent union, one entry per decoded
// client request (mirrors the original eis_server's InputEvent enum).
type EventKind int

const (
	EventPointerMotion EventKind = iota
	EventPointerMotionAbsolute
	EventPointerButton
	EventPointerAxis
	EventPointerAxisDiscrete
	EventKeyboardKeycode
	EventTouchDown
	EventTouchMotion
	EventTouchUp
)

// InputEvent is one decoded client request, tagged with the session it
// arrived on so the consumer can route it to the right Virtual Input
// Thread.
type InputEvent struct {
	SessionHandle string
	Kind          EventKind

	DX, DY float64
	X, Y   float64

	Button int32
	State  uint32

	Axis  uint32
	Steps int32

	Keycode int32

	Slot uint32
}
