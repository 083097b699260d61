// Package vinput implements the Virtual Input Thread (4.B): one dedicated
// OS thread per Remote Desktop session, owning a virtual keyboard and
// pointer and translating high-level input requests into compositor
// protocol events.
package vinput

// evdev keycodes for modifier keys (authoritative, §4.B).
const (
	KeyLeftShift  uint32 = 42
	KeyRightShift uint32 = 54
	KeyCapsLock   uint32 = 58
	KeyLeftCtrl   uint32 = 29
	KeyRightCtrl  uint32 = 97
	KeyAlt        uint32 = 56
	KeyLeftSuper  uint32 = 125
	KeyRightSuper uint32 = 126
	KeyAltGr      uint32 = 100
)

// Modifier is a bit-set encoded using the compositor's modifier bit
// positions (§4.B).
type Modifier uint32

const (
	ModShift    Modifier = 1
	ModCapsLock Modifier = 2
	ModCtrl     Modifier = 4
	ModAlt      Modifier = 8
	ModSuper    Modifier = 64
	ModAltGr    Modifier = 128
)

// modifierForKeycode returns the Modifier bit a given evdev keycode
// controls, and whether it is one at all.
func modifierForKeycode(code uint32) (Modifier, bool) {
	switch code {
	case KeyLeftShift, KeyRightShift:
		return ModShift, true
	case KeyCapsLock:
		return ModCapsLock, true
	case KeyLeftCtrl, KeyRightCtrl:
		return ModCtrl, true
	case KeyAlt:
		return ModAlt, true
	case KeyLeftSuper, KeyRightSuper:
		return ModSuper, true
	case KeyAltGr:
		return ModAltGr, true
	default:
		return 0, false
	}
}

// KeyState mirrors the wl_keyboard / wl_pointer press/release encoding:
// 0 means release, nonzero means press.
type KeyState uint32

const (
	StateReleased KeyState = 0
	StatePressed  KeyState = 1
)

func stateFromRaw(raw uint32) KeyState {
	if raw == 0 {
		return StateReleased
	}
	return StatePressed
}

// RequestKind discriminates the Request union (§4.B's operation table).
type RequestKind int

const (
	ReqPointerMotion RequestKind = iota
	ReqPointerMotionAbsolute
	ReqPointerButton
	ReqPointerAxis
	ReqPointerAxisDiscrete
	ReqKeyboardKeycode
	ReqKeyboardKeysym
	ReqTouchDown
	ReqTouchMotion
	ReqTouchUp
	ReqExit
)

// Request is one entry on the per-worker input queue.
type Request struct {
	Kind RequestKind

	DX, DY float64
	X, Y   float64

	Button uint32
	State  uint32 // raw 0/nonzero, per the wire contract

	Axis  uint32 // discrete axis selector: 0=vertical, else horizontal
	Steps int32

	Code uint32 // evdev keycode
	Sym  uint32 // XKB keysym

	Slot int32
}
