package vinput

import (
	"testing"
)

type fakeKeyboard struct {
	keys      []keyCall
	modifiers []uint32
}

type keyCall struct {
	ts    uint32
	code  uint32
	state KeyState
}

func (f *fakeKeyboard) Key(ts uint32, code uint32, state KeyState) error {
	f.keys = append(f.keys, keyCall{ts, code, state})
	return nil
}

func (f *fakeKeyboard) Modifiers(depressed, latched, locked, group uint32) error {
	f.modifiers = append(f.modifiers, depressed)
	return nil
}

func (f *fakeKeyboard) Close() error { return nil }

type pointerCall struct {
	kind             string
	ts               uint32
	x, y             float64
	extentW, extentH uint32
	button           uint32
	state            KeyState
	axis             AxisKind
	value            float64
	steps            int32
}

type fakePointer struct {
	calls []pointerCall
}

func (f *fakePointer) Motion(ts uint32, dx, dy float64) error {
	f.calls = append(f.calls, pointerCall{kind: "motion", ts: ts, x: dx, y: dy})
	return nil
}

func (f *fakePointer) MotionAbsolute(ts uint32, x, y, extentW, extentH uint32) error {
	f.calls = append(f.calls, pointerCall{kind: "motion_absolute", ts: ts, x: float64(x), y: float64(y), extentW: extentW, extentH: extentH})
	return nil
}

func (f *fakePointer) Button(ts uint32, code uint32, state KeyState) error {
	f.calls = append(f.calls, pointerCall{kind: "button", ts: ts, button: code, state: state})
	return nil
}

func (f *fakePointer) Axis(ts uint32, axis AxisKind, value float64) error {
	f.calls = append(f.calls, pointerCall{kind: "axis", ts: ts, axis: axis, value: value})
	return nil
}

func (f *fakePointer) AxisDiscrete(ts uint32, axis AxisKind, value float64, steps int32) error {
	f.calls = append(f.calls, pointerCall{kind: "axis_discrete", ts: ts, axis: axis, value: value, steps: steps})
	return nil
}

func (f *fakePointer) Frame() error { return nil }
func (f *fakePointer) Close() error { return nil }

type fakeResolver struct {
	table map[uint32][2]int // keysym -> [keycode, level]
}

func (f *fakeResolver) Resolve(keysym uint32) (uint32, int, bool) {
	kv, ok := f.table[keysym]
	if !ok {
		return 0, 0, false
	}
	return uint32(kv[0]), kv[1], true
}

func newTestWorker(kbd *fakeKeyboard, ptr *fakePointer, resolver Resolver, geom Geometry) *Worker {
	return NewWorker(kbd, ptr, resolver, geom, nil)
}

func TestProcessPointerButtonStateMapping(t *testing.T) {
	ptr := &fakePointer{}
	w := newTestWorker(&fakeKeyboard{}, ptr, &fakeResolver{}, Geometry{})

	w.process(Request{Kind: ReqPointerButton, Button: 272, State: 0})
	w.process(Request{Kind: ReqPointerButton, Button: 272, State: 1})

	if len(ptr.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(ptr.calls))
	}
	if ptr.calls[0].state != StateReleased {
		t.Fatalf("state=0 should map to Released, got %v", ptr.calls[0].state)
	}
	if ptr.calls[1].state != StatePressed {
		t.Fatalf("state!=0 should map to Pressed, got %v", ptr.calls[1].state)
	}
}

func TestProcessPointerAxisDiscreteMapping(t *testing.T) {
	ptr := &fakePointer{}
	w := newTestWorker(&fakeKeyboard{}, ptr, &fakeResolver{}, Geometry{})

	w.process(Request{Kind: ReqPointerAxisDiscrete, Axis: 0, Steps: -3})
	w.process(Request{Kind: ReqPointerAxisDiscrete, Axis: 1, Steps: 2})

	if ptr.calls[0].axis != AxisVertical {
		t.Fatalf("axis=0 should map to vertical, got %v", ptr.calls[0].axis)
	}
	if ptr.calls[0].value != 10.0 {
		t.Fatalf("magnitude should be fixed at 10.0, got %v", ptr.calls[0].value)
	}
	if ptr.calls[1].axis != AxisHorizontal {
		t.Fatalf("axis!=0 should map to horizontal, got %v", ptr.calls[1].axis)
	}
}

func TestProcessPointerMotionAbsoluteAppliesOrigin(t *testing.T) {
	ptr := &fakePointer{}
	geom := Geometry{OriginX: 100, OriginY: 50, SpaceW: 1920, SpaceH: 1080}
	w := newTestWorker(&fakeKeyboard{}, ptr, &fakeResolver{}, geom)

	w.process(Request{Kind: ReqPointerMotionAbsolute, X: 50.0, Y: 25.0})

	if len(ptr.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(ptr.calls))
	}
	c := ptr.calls[0]
	if c.x != 150 || c.y != 75 {
		t.Fatalf("got x=%v y=%v, want x=150 y=75", c.x, c.y)
	}
	if c.extentW != 1920 || c.extentH != 1080 {
		t.Fatalf("got extent (%d,%d), want (1920,1080)", c.extentW, c.extentH)
	}
	if c.ts != 10 {
		t.Fatalf("motion_absolute timestamp = %d, want fixed wire value 10", c.ts)
	}
}

// TestWireTimestampsAreFixedNotWallClock covers the testable scenario at
// spec.md:270: NotifyPointerMotionAbsolute(50.0, 25.0) must emit
// motion_absolute(timestamp=10, x=150, y=75, extent_w=1920, extent_h=1080),
// and every other request kind carries the fixed 100 literal — never
// wall-clock time.
func TestWireTimestampsAreFixedNotWallClock(t *testing.T) {
	kbd := &fakeKeyboard{}
	ptr := &fakePointer{}
	geom := Geometry{OriginX: 100, OriginY: 50, SpaceW: 1920, SpaceH: 1080}
	w := newTestWorker(kbd, ptr, &fakeResolver{}, geom)

	w.process(Request{Kind: ReqPointerMotion, DX: 1, DY: 1})
	w.process(Request{Kind: ReqPointerMotionAbsolute, X: 50.0, Y: 25.0})
	w.process(Request{Kind: ReqPointerButton, Button: 272, State: 1})
	w.process(Request{Kind: ReqPointerAxis, DX: 1, DY: 1})
	w.process(Request{Kind: ReqPointerAxisDiscrete, Axis: 0, Steps: 1})
	w.process(Request{Kind: ReqKeyboardKeycode, Code: 30, State: 1})

	for _, c := range ptr.calls {
		want := uint32(100)
		if c.kind == "motion" || c.kind == "motion_absolute" {
			want = 10
		}
		if c.ts != want {
			t.Fatalf("%s timestamp = %d, want %d", c.kind, c.ts, want)
		}
	}
	motionAbs := ptr.calls[1]
	if motionAbs.x != 150 || motionAbs.y != 75 || motionAbs.extentW != 1920 || motionAbs.extentH != 1080 {
		t.Fatalf("unexpected motion_absolute payload: %+v", motionAbs)
	}
	if len(kbd.keys) != 1 || kbd.keys[0].ts != 100 {
		t.Fatalf("keyboard key timestamp = %+v, want 100", kbd.keys)
	}
}

func TestProcessCapsLockTogglesOnPressOnly(t *testing.T) {
	kbd := &fakeKeyboard{}
	w := newTestWorker(kbd, &fakePointer{}, &fakeResolver{}, Geometry{})

	w.process(Request{Kind: ReqKeyboardKeycode, Code: KeyCapsLock, State: 1}) // press
	if w.modifiers != ModCapsLock {
		t.Fatalf("after press, modifiers = %v, want CapsLock set", w.modifiers)
	}

	w.process(Request{Kind: ReqKeyboardKeycode, Code: KeyCapsLock, State: 0}) // release: no-op
	if w.modifiers != ModCapsLock {
		t.Fatalf("release should be a no-op, modifiers = %v", w.modifiers)
	}

	w.process(Request{Kind: ReqKeyboardKeycode, Code: KeyCapsLock, State: 1}) // press again toggles off
	if w.modifiers != 0 {
		t.Fatalf("second press should toggle CapsLock off, modifiers = %v", w.modifiers)
	}
}

func TestProcessOtherModifiersSetClearOnPressRelease(t *testing.T) {
	w := newTestWorker(&fakeKeyboard{}, &fakePointer{}, &fakeResolver{}, Geometry{})

	w.process(Request{Kind: ReqKeyboardKeycode, Code: KeyLeftCtrl, State: 1})
	if w.modifiers&ModCtrl == 0 {
		t.Fatal("expected Ctrl bit set after press")
	}
	w.process(Request{Kind: ReqKeyboardKeycode, Code: KeyLeftCtrl, State: 0})
	if w.modifiers&ModCtrl != 0 {
		t.Fatal("expected Ctrl bit cleared after release")
	}
}

func TestProcessNonModifierKeycodeEmitsDirectly(t *testing.T) {
	kbd := &fakeKeyboard{}
	w := newTestWorker(kbd, &fakePointer{}, &fakeResolver{}, Geometry{})

	w.process(Request{Kind: ReqKeyboardKeycode, Code: 30, State: 1}) // KEY_A

	if len(kbd.keys) != 1 || kbd.keys[0].code != 30 || kbd.keys[0].state != StatePressed {
		t.Fatalf("unexpected key calls: %+v", kbd.keys)
	}
}

func TestProcessKeysymLevelZeroEmitsBare(t *testing.T) {
	kbd := &fakeKeyboard{}
	resolver := &fakeResolver{table: map[uint32][2]int{0x61: {30, 0}}} // 'a' at level 0
	w := newTestWorker(kbd, &fakePointer{}, resolver, Geometry{})

	w.process(Request{Kind: ReqKeyboardKeysym, Sym: 0x61, State: 1})

	if len(kbd.modifiers) != 0 {
		t.Fatalf("level 0 should not assert any modifier, got %v", kbd.modifiers)
	}
	if len(kbd.keys) != 1 || kbd.keys[0].code != 30 {
		t.Fatalf("unexpected key calls: %+v", kbd.keys)
	}
}

func TestProcessKeysymLevelOneAssertsShift(t *testing.T) {
	kbd := &fakeKeyboard{}
	resolver := &fakeResolver{table: map[uint32][2]int{0x41: {30, 1}}} // 'A' at level 1
	w := newTestWorker(kbd, &fakePointer{}, resolver, Geometry{})

	w.process(Request{Kind: ReqKeyboardKeysym, Sym: 0x41, State: 1})

	if len(kbd.modifiers) != 2 {
		t.Fatalf("expected modifiers asserted then reverted, got %v", kbd.modifiers)
	}
	if kbd.modifiers[0]&uint32(ModShift) == 0 {
		t.Fatalf("expected Shift asserted before emission, got %v", kbd.modifiers[0])
	}
	if kbd.modifiers[1]&uint32(ModShift) != 0 {
		t.Fatalf("expected Shift reverted after emission, got %v", kbd.modifiers[1])
	}
}

func TestProcessUnmappedKeysymIsDropped(t *testing.T) {
	kbd := &fakeKeyboard{}
	w := newTestWorker(kbd, &fakePointer{}, &fakeResolver{table: map[uint32][2]int{}}, Geometry{})

	w.process(Request{Kind: ReqKeyboardKeysym, Sym: 0xdeadbeef, State: 1})

	if len(kbd.keys) != 0 {
		t.Fatalf("expected no key emitted for unmapped keysym, got %+v", kbd.keys)
	}
}

func TestStopTerminatesRunLoop(t *testing.T) {
	kbd := &fakeKeyboard{}
	ptr := &fakePointer{}
	w := newTestWorker(kbd, ptr, &fakeResolver{}, Geometry{})

	go w.Run()
	w.Stop()

	select {
	case <-w.doneCh:
	default:
		t.Fatal("expected worker to have terminated after Stop")
	}
}
