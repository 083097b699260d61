package rpc

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/appearance"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/broker"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/capture"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/eis"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/logging"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/session"
)

var log = logging.L("rpc")

// Dispatcher wires the Session Registry, Selection Broker, Capture
// Pipeline, and Input Event Server into the D-Bus interfaces of §4.E
// plus Settings. One Dispatcher per process.
type Dispatcher struct {
	registry *session.Registry
	broker   *broker.Broker
	capturer capture.FrameCapturer
	graph    capture.GraphFactory
	input    InputFactory
	eisSrv   *eis.Server
	exp      Exporter

	appearance *appearance.Watcher

	mu            sync.Mutex
	permittedApps map[string]bool
}

// New constructs a Dispatcher around its collaborators. capturer and
// graph model the external compositor-side capture and media-graph
// libraries (§6.3); input binds the Virtual Input Thread's devices
// (§4.B); eisSrv is the Input Event Server (4.F) ConnectToEIS hands
// listeners to; exporter binds per-call Request objects (§6.2) as well
// as the six portal interfaces themselves.
func New(registry *session.Registry, b *broker.Broker, capturer capture.FrameCapturer, graph capture.GraphFactory, input InputFactory, eisSrv *eis.Server, exporter Exporter) *Dispatcher {
	return &Dispatcher{
		registry:      registry,
		broker:        b,
		capturer:      capturer,
		graph:         graph,
		input:         input,
		eisSrv:        eisSrv,
		exp:           exporter,
		permittedApps: make(map[string]bool),
	}
}

// WithAppearance attaches the Appearance Settings watcher (§4.G) and
// starts it; SettingChanged fires on the dispatcher's Exporter. Call
// once during startup, after New.
func (d *Dispatcher) WithAppearance(configPath string) error {
	d.appearance = appearance.NewWatcher(configPath, d.emitSettingChanged)
	return d.appearance.Start()
}

// exporter returns the Exporter used to bind per-call Request objects.
func (d *Dispatcher) exporter() Exporter { return d.exp }

// ExportAll binds every portal interface's object at the shared object
// path (§6.1).
func (d *Dispatcher) ExportAll() error {
	exporter := d.exp
	ifaces := []struct {
		name string
		impl any
	}{
		{"org.freedesktop.impl.portal.Screenshot", &Screenshot{d: d}},
		{"org.freedesktop.impl.portal.ScreenCast", &ScreenCast{d: d}},
		{"org.freedesktop.impl.portal.RemoteDesktop", &RemoteDesktop{d: d}},
		{"org.freedesktop.impl.portal.InputCapture", &InputCapture{d: d}},
		{"org.freedesktop.impl.portal.Access", &Access{d: d}},
		{"org.freedesktop.impl.portal.Settings", &Settings{d: d}},
	}
	for _, i := range ifaces {
		if err := exporter.Export(i.impl, ObjectPathBase, i.name); err != nil {
			return fmt.Errorf("rpc: export %s: %w", i.name, err)
		}
	}
	return nil
}

// hasPermission reports whether appID has already passed an Access
// dialog for interactive capture (§4.E: "if the app is not yet
// permission-checked, first open a Permission dialog").
func (d *Dispatcher) hasPermission(appID string) bool {
	if appID == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.permittedApps[appID]
}

func (d *Dispatcher) grantPermission(appID string) {
	if appID == "" {
		return
	}
	d.mu.Lock()
	d.permittedApps[appID] = true
	d.mu.Unlock()
}

// ensurePermission consults the Access dialog once per app if appID has
// not yet been permission-checked. Returns false if the user declines.
func (d *Dispatcher) ensurePermission(appID string) (bool, error) {
	if d.hasPermission(appID) {
		return true, nil
	}
	granted, err := d.broker.Permission(fmt.Sprintf("%s wants to capture your screen", appID))
	if err != nil {
		return false, err
	}
	if granted {
		d.grantPermission(appID)
	}
	return granted, nil
}

// pickTarget lists the outputs/toplevels and asks the Selection Broker
// to resolve them into a capture.Target (§4.D via §4.E).
func (d *Dispatcher) pickTarget() (capture.Target, bool, error) {
	outputs, err := d.capturer.ListOutputs()
	if err != nil {
		return capture.Target{}, false, fmt.Errorf("rpc: list outputs: %w", err)
	}
	toplevels, err := d.capturer.ListToplevels()
	if err != nil {
		return capture.Target{}, false, fmt.Errorf("rpc: list toplevels: %w", err)
	}

	screens := make([]broker.ScreenInfo, len(outputs))
	for i, o := range outputs {
		screens[i] = broker.ScreenInfo{Index: i, Name: o.Name, Description: o.Description}
	}
	windows := make([]broker.WindowInfo, len(toplevels))
	for i, t := range toplevels {
		windows[i] = broker.WindowInfo{Index: i, Title: t.Title}
	}

	reply, err := d.broker.OpenPicker(screens, windows)
	if err != nil {
		if err == broker.ErrCancelled {
			return capture.Target{}, true, nil
		}
		return capture.Target{}, false, err
	}

	switch reply.Kind {
	case broker.ReplyScreen:
		if reply.Index < 0 || reply.Index >= len(outputs) {
			return capture.Target{}, false, fmt.Errorf("rpc: picker returned out-of-range screen index %d", reply.Index)
		}
		return capture.Target{Kind: capture.TargetMonitor, OutputID: outputs[reply.Index].Name}, false, nil
	case broker.ReplyWindow:
		if reply.Index < 0 || reply.Index >= len(toplevels) {
			return capture.Target{}, false, fmt.Errorf("rpc: picker returned out-of-range window index %d", reply.Index)
		}
		return capture.Target{Kind: capture.TargetToplevel, ToplevelID: toplevels[reply.Index].ID}, false, nil
	case broker.ReplyAll:
		return capture.Target{Kind: capture.TargetAll}, false, nil
	case broker.ReplySlurp:
		// The broker reply carries no region, so a Slurp reply maps to
		// the whole desktop; no sub-region narrows the capture.
		return capture.Target{Kind: capture.TargetAll}, false, nil
	case broker.ReplyCancel:
		return capture.Target{}, true, nil
	default:
		return capture.Target{}, false, fmt.Errorf("rpc: unexpected picker reply kind %d", reply.Kind)
	}
}

func optBool(options dict, key string) (bool, bool) {
	v, ok := options[key]
	if !ok {
		return false, false
	}
	b, ok := v.Value().(bool)
	return b, ok
}

func optString(options dict, key string) (string, bool) {
	v, ok := options[key]
	if !ok {
		return "", false
	}
	s, ok := v.Value().(string)
	return s, ok
}

func optUint32(options dict, key string) (uint32, bool) {
	v, ok := options[key]
	if !ok {
		return 0, false
	}
	switch n := v.Value().(type) {
	case uint32:
		return n, true
	case int32:
		return uint32(n), true
	default:
		return 0, false
	}
}

// sessionByHandle looks a session up by its caller-supplied object path,
// returning nil on a miss — every Notify* caller treats an
// absent session as a silent no-op (§4.E: "the call may have raced the
// close").
func (d *Dispatcher) sessionByHandle(handle dbus.ObjectPath) *session.Session {
	return d.registry.Find(string(handle))
}

func errSessionNotFound(handle dbus.ObjectPath) error {
	return fmt.Errorf("rpc: no session at %s", handle)
}
