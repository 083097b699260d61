package rpc

import (
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/eis"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/vinput"
)

// StartEISConsumer launches the consumer task §4.F requires: a goroutine
// on the main runtime that drains the Input Event Server's decoded
// records and forwards each into the originating session's Virtual
// Input Thread via the same input-request path RemoteDesktop.submit
// uses. Call once during startup, after New.
func (d *Dispatcher) StartEISConsumer() {
	go d.runEISConsumer()
}

func (d *Dispatcher) runEISConsumer() {
	for ev := range d.eisSrv.Events() {
		sess := d.registry.Find(ev.SessionHandle)
		if sess == nil {
			continue
		}
		w := sess.InputWorker()
		if w == nil {
			continue
		}
		w.Submit(eisEventToRequest(ev))
	}
}

// eisEventToRequest converts one decoded Input Event Server record into
// the Virtual Input Thread's request union. EIS clients never produce a
// keysym or exit request, so ReqKeyboardKeysym/ReqExit have no source
// EventKind here.
func eisEventToRequest(ev eis.InputEvent) vinput.Request {
	switch ev.Kind {
	case eis.EventPointerMotion:
		return vinput.Request{Kind: vinput.ReqPointerMotion, DX: ev.DX, DY: ev.DY}
	case eis.EventPointerMotionAbsolute:
		return vinput.Request{Kind: vinput.ReqPointerMotionAbsolute, X: ev.X, Y: ev.Y}
	case eis.EventPointerButton:
		return vinput.Request{Kind: vinput.ReqPointerButton, Button: uint32(ev.Button), State: ev.State}
	case eis.EventPointerAxis:
		return vinput.Request{Kind: vinput.ReqPointerAxis, DX: ev.DX, DY: ev.DY}
	case eis.EventPointerAxisDiscrete:
		return vinput.Request{Kind: vinput.ReqPointerAxisDiscrete, Axis: ev.Axis, Steps: ev.Steps}
	case eis.EventKeyboardKeycode:
		return vinput.Request{Kind: vinput.ReqKeyboardKeycode, Code: uint32(ev.Keycode), State: ev.State}
	case eis.EventTouchDown:
		return vinput.Request{Kind: vinput.ReqTouchDown, Slot: int32(ev.Slot), X: ev.X, Y: ev.Y}
	case eis.EventTouchMotion:
		return vinput.Request{Kind: vinput.ReqTouchMotion, Slot: int32(ev.Slot), X: ev.X, Y: ev.Y}
	case eis.EventTouchUp:
		return vinput.Request{Kind: vinput.ReqTouchUp, Slot: int32(ev.Slot)}
	default:
		return vinput.Request{}
	}
}
