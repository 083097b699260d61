//go:build linux

package vinput

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/wayland-virtual-input-go/virtual_keyboard"
	"github.com/bnema/wayland-virtual-input-go/virtual_pointer"
)

// wireTime turns a wire millisecond timestamp (§4.B's fixed 10/100
// literals) into the time.Time the underlying library's protocol marshaling
// expects, anchored at the Unix epoch so the millisecond value it extracts
// back out is exactly ts.
func wireTime(ts uint32) time.Time {
	return time.UnixMilli(int64(ts))
}

// waylandKeyboard adapts virtual_keyboard.VirtualKeyboard to VirtualKeyboard.
type waylandKeyboard struct {
	kbd *virtual_keyboard.VirtualKeyboard
	mgr *virtual_keyboard.VirtualKeyboardManager
}

func (w *waylandKeyboard) Key(ts uint32, code uint32, state KeyState) error {
	return w.kbd.Key(wireTime(ts), code, virtual_keyboard.KeyState(state))
}

func (w *waylandKeyboard) Modifiers(depressed, latched, locked, group uint32) error {
	return w.kbd.Modifiers(depressed, latched, locked, group)
}

func (w *waylandKeyboard) Close() error {
	err := w.kbd.Close()
	if w.mgr != nil {
		if e := w.mgr.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// waylandPointer adapts virtual_pointer.VirtualPointer to VirtualPointer.
type waylandPointer struct {
	ptr *virtual_pointer.VirtualPointer
	mgr *virtual_pointer.VirtualPointerManager
}

func (w *waylandPointer) Motion(ts uint32, dx, dy float64) error {
	return w.ptr.Motion(wireTime(ts), dx, dy)
}

func (w *waylandPointer) MotionAbsolute(ts uint32, x, y, extentW, extentH uint32) error {
	return w.ptr.MotionAbsolute(wireTime(ts), x, y, extentW, extentH)
}

func (w *waylandPointer) Button(ts uint32, code uint32, state KeyState) error {
	return w.ptr.Button(wireTime(ts), code, virtual_pointer.ButtonState(state))
}

func (w *waylandPointer) Axis(ts uint32, axis AxisKind, value float64) error {
	return w.ptr.Axis(wireTime(ts), virtual_pointer.Axis(axis), value)
}

func (w *waylandPointer) AxisDiscrete(ts uint32, axis AxisKind, value float64, steps int32) error {
	return w.ptr.AxisDiscrete(wireTime(ts), virtual_pointer.Axis(axis), value, steps)
}

func (w *waylandPointer) Frame() error {
	return w.ptr.Frame()
}

func (w *waylandPointer) Close() error {
	err := w.ptr.Close()
	if w.mgr != nil {
		if e := w.mgr.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// BindDevices connects to the Wayland compositor's virtual-pointer and
// virtual-keyboard managers (zwlr_virtual_pointer_v1, zwp_virtual_keyboard_v1)
// and returns a bound keyboard/pointer pair ready to hand to NewWorker.
//
// keymapString is the XKB keymap text to upload to the compositor (from
// xkb.Context.KeymapString); the virtual keyboard protocol requires a
// keymap before any Key or Modifiers request is accepted.
func BindDevices(ctx context.Context, keymapString string) (VirtualKeyboard, VirtualPointer, error) {
	pointerMgr, err := virtual_pointer.NewVirtualPointerManager(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("vinput: bind virtual pointer manager: %w", err)
	}
	ptr, err := pointerMgr.CreatePointer()
	if err != nil {
		_ = pointerMgr.Close()
		return nil, nil, fmt.Errorf("vinput: create virtual pointer: %w", err)
	}

	keyboardMgr, err := virtual_keyboard.NewVirtualKeyboardManager(ctx)
	if err != nil {
		_ = ptr.Close()
		_ = pointerMgr.Close()
		return nil, nil, fmt.Errorf("vinput: bind virtual keyboard manager: %w", err)
	}
	kbd, err := keyboardMgr.CreateKeyboard()
	if err != nil {
		_ = keyboardMgr.Close()
		_ = ptr.Close()
		_ = pointerMgr.Close()
		return nil, nil, fmt.Errorf("vinput: create virtual keyboard: %w", err)
	}
	if err := kbd.SetKeymap(keymapString); err != nil {
		_ = kbd.Close()
		_ = keyboardMgr.Close()
		_ = ptr.Close()
		_ = pointerMgr.Close()
		return nil, nil, fmt.Errorf("vinput: upload keymap: %w", err)
	}

	return &waylandKeyboard{kbd: kbd, mgr: keyboardMgr}, &waylandPointer{ptr: ptr, mgr: pointerMgr}, nil
}
