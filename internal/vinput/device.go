package vinput

// VirtualKeyboard is the subset of bnema/wayland-virtual-input-go's
// virtual_keyboard.VirtualKeyboard this package drives. ts is the wire
// timestamp (milliseconds) carried on the compositor protocol event, not
// wall-clock time (§4.B fixes it per request kind; see motionTimestamp /
// actionTimestamp in worker.go).
type VirtualKeyboard interface {
	Key(ts uint32, code uint32, state KeyState) error
	Modifiers(depressed, latched, locked, group uint32) error
	Close() error
}

// VirtualPointer is the subset of
// bnema/wayland-virtual-input-go's virtual_pointer.VirtualPointer this
// package drives. ts is the wire timestamp, see VirtualKeyboard.
type VirtualPointer interface {
	Motion(ts uint32, dx, dy float64) error
	MotionAbsolute(ts uint32, x, y, extentW, extentH uint32) error
	Button(ts uint32, code uint32, state KeyState) error
	Axis(ts uint32, axis AxisKind, value float64) error
	AxisDiscrete(ts uint32, axis AxisKind, value float64, steps int32) error
	Frame() error
	Close() error
}

// AxisKind mirrors wl_pointer's axis enum.
type AxisKind uint32

const (
	AxisVertical   AxisKind = 0
	AxisHorizontal AxisKind = 1
)
