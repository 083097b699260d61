package rpc

import (
	"github.com/godbus/dbus/v5"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/capture"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/eis"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/logging"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/session"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/vinput"
)

// RemoteDesktop implements org.freedesktop.impl.portal.RemoteDesktop
// (§4.E).
type RemoteDesktop struct {
	d *Dispatcher
}

func (r *RemoteDesktop) Version() (uint32, *dbus.Error) { return 2, nil }

func (r *RemoteDesktop) AvailableDeviceTypes() (uint32, *dbus.Error) {
	return uint32(session.SupportedDeviceTypes), nil
}

func (r *RemoteDesktop) CreateSession(requestHandle, sessionHandle dbus.ObjectPath, appID string, options dict) (uint32, dict, *dbus.Error) {
	req, err := NewRequest(r.d.exporter(), requestHandle)
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	defer req.Release()

	sess := session.New(string(sessionHandle), session.KindRemote)
	sess.SetAppID(appID)
	if err := r.d.registry.Append(sess); err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	return uint32(ResponseSuccess), dict{"session_handle": v(string(sessionHandle))}, nil
}

func (r *RemoteDesktop) SelectDevices(requestHandle, sessionHandle dbus.ObjectPath, appID string, options dict) (uint32, dict, *dbus.Error) {
	sess := r.d.sessionByHandle(sessionHandle)
	if sess == nil {
		return uint32(ResponseOther), dict{}, nil
	}
	var opts session.Options
	if n, ok := optUint32(options, "types"); ok {
		dt := session.DeviceType(n)
		opts.DeviceTypes = &dt
	}
	if n, ok := optUint32(options, "persist_mode"); ok {
		pm := session.PersistMode(n)
		opts.PersistMode = &pm
	}
	if tok, ok := optString(options, "restore_token"); ok {
		opts.RestoreToken = &tok
	}
	sess.UpdateOptions(opts)
	return uint32(ResponseSuccess), dict{}, nil
}

// Start resolves the capture target exactly like ScreenCast.Start and
// additionally attaches a Virtual Input Thread sized to the picked
// target's geometry (§4.B, §4.E).
func (r *RemoteDesktop) Start(requestHandle, sessionHandle dbus.ObjectPath, appID, parentWindow string, options dict) (uint32, dict, *dbus.Error) {
	sess := r.d.sessionByHandle(sessionHandle)
	if sess == nil {
		return uint32(ResponseOther), dict{}, nil
	}
	if ids := sess.NodeIDs(); len(ids) > 0 {
		return uint32(ResponseSuccess), dict{"streams": v(streamsFor(ids))}, nil
	}

	target, cancelled, err := r.d.pickTarget()
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	if cancelled {
		return uint32(ResponseCancelled), dict{}, nil
	}

	snap := sess.Snapshot()
	job := capture.Job{Target: target, OverlayCursor: snap.CursorMode&session.CursorEmbedded != 0}
	worker := capture.NewWorker(job, r.d.capturer, r.d.graph)
	nodeID, err := worker.Start()
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	sess.SetCastWorker(worker)
	sess.RememberNodeIDs([]uint32{nodeID})
	go worker.Wait()

	size := worker.CurrentSize()
	geom := vinput.Geometry{SpaceW: size.Width, SpaceH: size.Height}
	if inputWorker, err := r.d.input.NewWorker(geom, func() { sess.ClearInputWorker() }); err != nil {
		log.Warn("failed to bind virtual input devices", logging.KeySession, sess.Handle(), logging.KeyError, err)
	} else {
		sess.SetInputWorker(inputWorker)
	}

	return uint32(ResponseSuccess), dict{
		"streams": v(streamsFor(sess.NodeIDs())),
		"devices": v(uint32(snap.DeviceTypes)),
	}, nil
}

func (r *RemoteDesktop) submit(sessionHandle dbus.ObjectPath, req vinput.Request) *dbus.Error {
	sess := r.d.sessionByHandle(sessionHandle)
	if sess == nil {
		return nil
	}
	w := sess.InputWorker()
	if w == nil {
		return nil
	}
	w.Submit(req)
	return nil
}

func (r *RemoteDesktop) NotifyPointerMotion(sessionHandle dbus.ObjectPath, options dict, dx, dy float64) *dbus.Error {
	return r.submit(sessionHandle, vinput.Request{Kind: vinput.ReqPointerMotion, DX: dx, DY: dy})
}

func (r *RemoteDesktop) NotifyPointerMotionAbsolute(sessionHandle dbus.ObjectPath, options dict, stream uint32, x, y float64) *dbus.Error {
	return r.submit(sessionHandle, vinput.Request{Kind: vinput.ReqPointerMotionAbsolute, X: x, Y: y})
}

func (r *RemoteDesktop) NotifyPointerButton(sessionHandle dbus.ObjectPath, options dict, button int32, state uint32) *dbus.Error {
	return r.submit(sessionHandle, vinput.Request{Kind: vinput.ReqPointerButton, Button: uint32(button), State: state})
}

func (r *RemoteDesktop) NotifyPointerAxis(sessionHandle dbus.ObjectPath, options dict, dx, dy float64) *dbus.Error {
	return r.submit(sessionHandle, vinput.Request{Kind: vinput.ReqPointerAxis, DX: dx, DY: dy})
}

func (r *RemoteDesktop) NotifyPointerAxisDiscrete(sessionHandle dbus.ObjectPath, options dict, axis uint32, steps int32) *dbus.Error {
	return r.submit(sessionHandle, vinput.Request{Kind: vinput.ReqPointerAxisDiscrete, Axis: axis, Steps: steps})
}

func (r *RemoteDesktop) NotifyKeyboardKeycode(sessionHandle dbus.ObjectPath, options dict, keycode int32, state uint32) *dbus.Error {
	return r.submit(sessionHandle, vinput.Request{Kind: vinput.ReqKeyboardKeycode, Code: uint32(keycode), State: state})
}

func (r *RemoteDesktop) NotifyKeyboardKeysym(sessionHandle dbus.ObjectPath, options dict, keysym int32, state uint32) *dbus.Error {
	return r.submit(sessionHandle, vinput.Request{Kind: vinput.ReqKeyboardKeysym, Sym: uint32(keysym), State: state})
}

func (r *RemoteDesktop) NotifyTouchDown(sessionHandle dbus.ObjectPath, options dict, stream uint32, slot uint32, x, y float64) *dbus.Error {
	return r.submit(sessionHandle, vinput.Request{Kind: vinput.ReqTouchDown, Slot: int32(slot), X: x, Y: y})
}

func (r *RemoteDesktop) NotifyTouchMotion(sessionHandle dbus.ObjectPath, options dict, stream uint32, slot uint32, x, y float64) *dbus.Error {
	return r.submit(sessionHandle, vinput.Request{Kind: vinput.ReqTouchMotion, Slot: int32(slot), X: x, Y: y})
}

func (r *RemoteDesktop) NotifyTouchUp(sessionHandle dbus.ObjectPath, options dict, slot uint32) *dbus.Error {
	return r.submit(sessionHandle, vinput.Request{Kind: vinput.ReqTouchUp, Slot: int32(slot)})
}

// ConnectToEIS allocates an emulated-input-socket listener, hands it off
// to the Input Event Server, and duplicates its fd back to the caller
// (§4.E, §5, §6.6).
func (r *RemoteDesktop) ConnectToEIS(sessionHandle dbus.ObjectPath, options dict) (dbus.UnixFD, *dbus.Error) {
	sess := r.d.sessionByHandle(sessionHandle)
	if sess == nil {
		return -1, dbus.MakeFailedError(errSessionNotFound(sessionHandle))
	}

	listener, callerFD, err := newEmulatedInputSocket()
	if err != nil {
		return -1, dbus.MakeFailedError(err)
	}
	r.d.eisSrv.Submit(eis.Control{Kind: eis.CtrlNewListener, SessionHandle: string(sessionHandle), Listener: listener})

	dup, err := eis.DuplicateFD(callerFD)
	if err != nil {
		return -1, dbus.MakeFailedError(err)
	}
	return dbus.UnixFD(dup), nil
}
