package rpc

import (
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/session"
)

// InputCapture implements org.freedesktop.impl.portal.InputCapture
// (§4.E): a feature-reduced surface sharing the Session Registry and
// Input Event Server with RemoteDesktop.
type InputCapture struct {
	d *Dispatcher

	mu       sync.Mutex
	barriers map[string]map[uint32]Barrier // session handle -> barrier id -> barrier
}

// Barrier is one pointer barrier SetPointerBarriers validated and
// installed.
type Barrier struct {
	ID                     uint32
	X1, Y1, X2, Y2         int32
}

func (i *InputCapture) Version() (uint32, *dbus.Error) { return 1, nil }

func (i *InputCapture) Capabilities() (uint32, *dbus.Error) {
	return uint32(session.SupportedDeviceTypes), nil
}

func (i *InputCapture) CreateSession(requestHandle, sessionHandle dbus.ObjectPath, appID string, options dict) (uint32, dict, *dbus.Error) {
	req, err := NewRequest(i.d.exporter(), requestHandle)
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	defer req.Release()

	sess := session.New(string(sessionHandle), session.KindInputCapture)
	sess.SetAppID(appID)
	outputs, err := i.d.capturer.ListOutputs()
	if err == nil && len(outputs) > 0 {
		o := outputs[0]
		sess.SetZone(session.Zone{XOffset: o.X, YOffset: o.Y, Width: o.Width, Height: o.Height})
	}
	if err := i.d.registry.Append(sess); err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	return uint32(ResponseSuccess), dict{"session_handle": v(string(sessionHandle))}, nil
}

// GetZones returns the monitor geometry learned at session creation
// (§4.E, §12): it is never recomputed per call.
func (i *InputCapture) GetZones(sessionHandle dbus.ObjectPath, options dict) (uint32, dict, *dbus.Error) {
	sess := i.d.sessionByHandle(sessionHandle)
	if sess == nil {
		return uint32(ResponseOther), dict{}, nil
	}
	z := sess.Snapshot().Zone
	zones := []any{[]any{uint32(z.Width), uint32(z.Height), z.XOffset, z.YOffset}}
	return uint32(ResponseSuccess), dict{"zones": v(zones)}, nil
}

// SetPointerBarriers validates each barrier (x1==x2 or y1==y2) and
// installs only the valid ones; invalid ids are reported in
// failed_barriers (§4.E).
func (i *InputCapture) SetPointerBarriers(sessionHandle dbus.ObjectPath, options dict, rawBarriers []Barrier) (uint32, dict, *dbus.Error) {
	sess := i.d.sessionByHandle(sessionHandle)
	if sess == nil {
		return uint32(ResponseOther), dict{}, nil
	}

	installed := make(map[uint32]Barrier)
	var failed []uint32
	for _, b := range rawBarriers {
		if b.X1 == b.X2 || b.Y1 == b.Y2 {
			installed[b.ID] = b
		} else {
			failed = append(failed, b.ID)
		}
	}

	i.mu.Lock()
	if i.barriers == nil {
		i.barriers = make(map[string]map[uint32]Barrier)
	}
	i.barriers[string(sessionHandle)] = installed
	i.mu.Unlock()

	return uint32(ResponseSuccess), dict{"failed_barriers": v(failed)}, nil
}

func (i *InputCapture) Enable(sessionHandle dbus.ObjectPath, options dict) *dbus.Error {
	// Enabling is a no-op marker here: actual zone-entry detection and
	// barrier crossing live in the compositor-side capture library
	// (§6.3), which is outside this module's scope.
	return nil
}

func (i *InputCapture) Disable(sessionHandle dbus.ObjectPath, options dict) *dbus.Error {
	return nil
}

// ConnectToEIS shares RemoteDesktop's implementation: InputCapture
// sessions drive the same Virtual Input Thread / Input Event Server path
// (§4.E, §6.6).
func (i *InputCapture) ConnectToEIS(sessionHandle dbus.ObjectPath, options dict) (dbus.UnixFD, *dbus.Error) {
	rd := &RemoteDesktop{d: i.d}
	return rd.ConnectToEIS(sessionHandle, options)
}
