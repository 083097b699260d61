package vinput

import (
	"time"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/logging"
)

var log = logging.L("vinput")

// tickInterval is the loop's request-batching period (§4.B: "Requests are
// batched per loop tick (≈20ms) to amortize round-trip cost").
const tickInterval = 20 * time.Millisecond

// Wire timestamps are fixed literals, not wall-clock time: motion events
// carry 10, every other pointer/keyboard event carries 100 (§4.B, grounded
// in the original's notify_pointer_motion/notify_pointer_button/etc. each
// hardcoding their own literal).
const (
	motionTimestamp uint32 = 10
	actionTimestamp uint32 = 100
)

// Resolver is the keysym->keycode lookup the worker needs; satisfied by
// *internal/xkb.Context.
type Resolver interface {
	Resolve(keysym uint32) (keycode uint32, level int, ok bool)
}

// Geometry is the session-origin and space extent an absolute pointer
// motion is mapped against (§4.B).
type Geometry struct {
	OriginX, OriginY int32
	SpaceW, SpaceH   uint32
}

// Worker is the Virtual Input Thread (4.B): one per Remote Desktop
// session, owning a virtual keyboard and pointer and running its own
// cooperative event loop on a dedicated OS thread.
type Worker struct {
	kbd VirtualKeyboard
	ptr VirtualPointer
	xkb Resolver

	geom Geometry

	modifiers Modifier

	reqCh  chan Request
	doneCh chan struct{}

	// onDead is stored at construction but the worker never calls it:
	// send failures are logged and the loop keeps running, and the loop
	// does not detect compositor connection loss.
	onDead func()
}

// NewWorker constructs a Virtual Input Thread around an already-bound
// keyboard/pointer pair and keysym resolver.
func NewWorker(kbd VirtualKeyboard, ptr VirtualPointer, resolver Resolver, geom Geometry, onDead func()) *Worker {
	return &Worker{
		kbd:    kbd,
		ptr:    ptr,
		xkb:    resolver,
		geom:   geom,
		reqCh:  make(chan Request, 256),
		doneCh: make(chan struct{}),
		onDead: onDead,
	}
}

// Submit enqueues a request. Safe to call from any goroutine (MPSC).
// Silently drops the request if the worker has already exited.
func (w *Worker) Submit(req Request) {
	select {
	case w.reqCh <- req:
	case <-w.doneCh:
	}
}

// Stop requests the worker to terminate and blocks until it has. Safe to
// call multiple times and from any goroutine.
func (w *Worker) Stop() {
	select {
	case w.reqCh <- Request{Kind: ReqExit}:
	case <-w.doneCh:
		return
	}
	<-w.doneCh
}

// Run is the worker's event loop. The caller is expected to run this on a
// dedicated OS thread (runtime.LockOSThread) since the underlying Wayland
// objects are not safe to use from multiple threads.
func (w *Worker) Run() {
	defer close(w.doneCh)
	defer w.kbd.Close()
	defer w.ptr.Close()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var pending []Request
	for {
		select {
		case req := <-w.reqCh:
			pending = append(pending, req)
			if req.Kind == ReqExit {
				w.drainBatch(pending)
				return
			}
		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			batch := pending
			pending = nil
			if exit := w.drainBatch(batch); exit {
				return
			}
		}
	}
}

// drainBatch processes a batch of requests in submission order, returning
// true if an Exit request was among them.
func (w *Worker) drainBatch(batch []Request) (exit bool) {
	for _, req := range batch {
		if req.Kind == ReqExit {
			return true
		}
		w.process(req)
	}
	return false
}

func (w *Worker) process(req Request) {
	var err error
	switch req.Kind {
	case ReqPointerMotion:
		err = w.ptr.Motion(motionTimestamp, req.DX, req.DY)
	case ReqPointerMotionAbsolute:
		x := req.X + float64(w.geom.OriginX)
		y := req.Y + float64(w.geom.OriginY)
		err = w.ptr.MotionAbsolute(motionTimestamp, uint32(x), uint32(y), w.geom.SpaceW, w.geom.SpaceH)
	case ReqPointerButton:
		err = w.ptr.Button(actionTimestamp, req.Button, stateFromRaw(req.State))
	case ReqPointerAxis:
		if req.DX != 0 {
			err = w.ptr.Axis(actionTimestamp, AxisHorizontal, req.DX)
		}
		if req.DY != 0 {
			if e := w.ptr.Axis(actionTimestamp, AxisVertical, req.DY); e != nil {
				err = e
			}
		}
	case ReqPointerAxisDiscrete:
		axis := AxisVertical
		if req.Axis != 0 {
			axis = AxisHorizontal
		}
		err = w.ptr.AxisDiscrete(actionTimestamp, axis, 10.0, req.Steps)
	case ReqKeyboardKeycode:
		err = w.processKeycode(req.Code, stateFromRaw(req.State))
	case ReqKeyboardKeysym:
		err = w.processKeysym(req.Sym, stateFromRaw(req.State))
	case ReqTouchDown, ReqTouchMotion, ReqTouchUp:
		log.Debug("touch input not implemented, dropping", "kind", req.Kind)
	}
	if err != nil {
		log.Warn("failed to emit input event", logging.KeyError, err)
	}
}

// processKeycode implements the KeyboardKeycode row of §4.B's table.
func (w *Worker) processKeycode(code uint32, state KeyState) error {
	mod, isModifier := modifierForKeycode(code)
	if !isModifier {
		return w.kbd.Key(actionTimestamp, code, state)
	}

	if mod == ModCapsLock {
		// CapsLock toggles on press only; release is a no-op (§4.B, §8).
		if state == StatePressed {
			w.modifiers ^= ModCapsLock
		}
	} else if state == StatePressed {
		w.modifiers |= mod
	} else {
		w.modifiers &^= mod
	}

	return w.pushModifiers(w.modifiers)
}

// processKeysym implements the KeyboardKeysym row: resolve via XKB, then
// assert the needed level's modifier around the keycode emission.
func (w *Worker) processKeysym(sym uint32, state KeyState) error {
	kc, level, ok := w.xkb.Resolve(sym)
	if !ok {
		log.Info("keysym has no mapping in current keymap, dropping", "keysym", sym)
		return nil
	}

	var needed Modifier
	switch level {
	case 1:
		needed = ModShift
	case 2:
		needed = ModAltGr
	}

	if needed == 0 || w.modifiers&needed != 0 {
		return w.kbd.Key(actionTimestamp, kc, state)
	}

	if err := w.pushModifiers(w.modifiers | needed); err != nil {
		return err
	}
	if err := w.kbd.Key(actionTimestamp, kc, state); err != nil {
		return err
	}
	return w.pushModifiers(w.modifiers)
}

func (w *Worker) pushModifiers(mods Modifier) error {
	return w.kbd.Modifiers(uint32(mods), 0, 0, 0)
}
