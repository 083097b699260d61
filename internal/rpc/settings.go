package rpc

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const appearanceNamespace = "org.freedesktop.appearance"

// Settings implements org.freedesktop.impl.portal.Settings (§4.G): a
// single read() method plus a SettingChanged signal the appearance
// watcher drives.
type Settings struct {
	d *Dispatcher
}

func (s *Settings) Version() (uint32, *dbus.Error) { return 1, nil }

// Read returns the current value for namespace/key, matching
// settings.rs's read(): only the appearance namespace and its four keys
// are known; everything else fails.
func (s *Settings) Read(namespace, key string) (dbus.Variant, *dbus.Error) {
	if namespace != appearanceNamespace || s.d.appearance == nil {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("rpc: no such namespace %q", namespace))
	}
	cfg := s.d.appearance.Current()
	switch key {
	case "color-scheme":
		return v(cfg.ColorSchemeCode()), nil
	case "accent-color":
		return v(cfg.AccentColorTriple()), nil
	case "contrast":
		return v(cfg.ContrastCode()), nil
	case "reduced-motion":
		return v(cfg.ReducedMotionCode()), nil
	default:
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("rpc: no such key %q", key))
	}
}

// emitSettingChanged is the appearance.ChangeFunc the Dispatcher hands to
// its appearance.Watcher: it re-encodes the value per key and emits the
// SettingChanged signal (§4.G), mirroring update_settings's four
// unconditional setting_changed calls.
func (d *Dispatcher) emitSettingChanged(key string, value uint32, rgb [3]float64) {
	var val any = value
	if key == "accent-color" {
		val = rgb
	}
	err := d.exp.Emit(ObjectPathBase, "org.freedesktop.impl.portal.Settings.SettingChanged", appearanceNamespace, key, val)
	if err != nil {
		log.Warn("failed to emit SettingChanged", "key", key, "error", err)
	}
}
