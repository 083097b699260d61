package rpc

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/godbus/dbus/v5"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/capture"
)

// Screenshot implements org.freedesktop.impl.portal.Screenshot (§4.E).
type Screenshot struct {
	d *Dispatcher
}

// Version is the interface's immutable capability property.
func (s *Screenshot) Version() (uint32, *dbus.Error) { return 1, nil }

// Screenshot captures either a single interactively-picked target or the
// whole desktop, saving the result to $XDG_RUNTIME_DIR/wayshot.png.
func (s *Screenshot) Screenshot(handle dbus.ObjectPath, appID, parentWindow string, options dict) (uint32, dict, *dbus.Error) {
	req, err := NewRequest(s.d.exporter(), handle)
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	defer req.Release()

	interactive, _ := optBool(options, "interactive")

	target := capture.Target{Kind: capture.TargetAll}
	if interactive {
		if granted, err := s.d.ensurePermission(appID); err != nil {
			return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
		} else if !granted {
			return uint32(ResponseCancelled), dict{}, nil
		}

		picked, cancelled, err := s.d.pickTarget()
		if err != nil {
			return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
		}
		if cancelled {
			return uint32(ResponseCancelled), dict{}, nil
		}
		target = picked
	}

	select {
	case <-req.Cancelled():
		return uint32(ResponseCancelled), dict{}, nil
	default:
	}

	uri, err := s.d.captureToFile(target, nil)
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	return uint32(ResponseSuccess), dict{"uri": v(uri)}, nil
}

// PickColor asks the Selection Broker for permission, then returns the
// color of the pixel at (0,0) of the whole-desktop capture. The desktop
// is not frozen and no point is picked interactively.
func (s *Screenshot) PickColor(handle dbus.ObjectPath, appID, parentWindow string, options dict) (uint32, dict, *dbus.Error) {
	req, err := NewRequest(s.d.exporter(), handle)
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	defer req.Release()

	reply, err := s.d.broker.Permission(fmt.Sprintf("%s wants to pick a color from your screen", appID))
	if err != nil || !reply {
		return uint32(ResponseCancelled), dict{}, nil
	}

	region := &capture.Region{X: 0, Y: 0, Width: 1, Height: 1}
	r, g, b, err := s.d.captureColor(capture.Target{Kind: capture.TargetAll}, region)
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	return uint32(ResponseSuccess), dict{"color": v([3]float64{r, g, b})}, nil
}

// captureToFile renders target into $XDG_RUNTIME_DIR/wayshot.png,
// returning its file:// URI.
func (d *Dispatcher) captureToFile(target capture.Target, region *capture.Region) (string, error) {
	size, formats, err := d.capturer.Probe(target)
	if err != nil {
		return "", fmt.Errorf("rpc: probe target: %w", err)
	}
	format := capture.FormatBGRA
	if len(formats) > 0 {
		format = formats[0]
	}

	img, err := captureFrame(d.capturer, target, format, size, region, false)
	if err != nil {
		return "", err
	}
	buf, err := encodePNG(img)
	if err != nil {
		return "", err
	}

	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "wayshot.png")
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		return "", fmt.Errorf("rpc: write screenshot: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: path}).String(), nil
}

// captureColor reads the single pixel in region and returns its RGB
// channels scaled into [0,1] (channel/256, §4.E).
func (d *Dispatcher) captureColor(target capture.Target, region *capture.Region) (r, g, b float64, err error) {
	size, formats, err := d.capturer.Probe(target)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("rpc: probe target: %w", err)
	}
	format := capture.FormatBGRA
	if len(formats) > 0 {
		format = formats[0]
	}
	img, err := captureFrame(d.capturer, target, format, capture.Size{Width: 1, Height: 1}, region, false)
	if err != nil {
		return 0, 0, 0, err
	}
	_ = size
	px := img.NRGBAAt(0, 0)
	return float64(px.R) / 256.0, float64(px.G) / 256.0, float64(px.B) / 256.0, nil
}
