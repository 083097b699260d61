package capture

import "errors"

// ErrNoBackend is returned by Unimplemented's capture-performing methods.
// Every xdg-desktop-portal-luminous deployment must supply a real
// FrameCapturer/GraphFactory pair bound to its compositor's screencopy
// and media-graph protocols (§6.3, §2's "Non-goals: the compositor-side
// capture library"); this package ships no such binding, the same way
// libwayshot is a separate crate the original pulls in rather than
// something the portal core implements itself.
var ErrNoBackend = errors.New("capture: no compositor capture backend configured")

// Unimplemented satisfies FrameCapturer and GraphFactory by reporting an
// empty desktop and failing any capture attempt. It lets the RPC
// Dispatcher start and serve the interfaces that don't need a capturer
// (Access, Settings, the Session lifecycle calls) before a real backend
// is wired in.
type Unimplemented struct{}

func (Unimplemented) ListOutputs() ([]OutputInfo, error)     { return nil, nil }
func (Unimplemented) ListToplevels() ([]ToplevelInfo, error) { return nil, nil }

func (Unimplemented) Probe(Target) (Size, []PixelFormat, error) {
	return Size{}, nil, ErrNoBackend
}

func (Unimplemented) SupportedFormats(Target) ([]PixelFormat, error) {
	return nil, ErrNoBackend
}

func (Unimplemented) SupportsGBM() bool { return false }

func (Unimplemented) CaptureSHM(Target, int, PixelFormat, *Region, bool) (Guard, error) {
	return nil, ErrNoBackend
}

func (Unimplemented) CaptureDMABUF(Target, *Region, bool) (AllocUnit, error) {
	return AllocUnit{}, ErrNoBackend
}

func (Unimplemented) FillDMABUF(Target, []BO, *Region, bool) (Guard, error) {
	return nil, ErrNoBackend
}

func (Unimplemented) CreateNode(mediaClass string, cb NodeCallbacks) (GraphNode, error) {
	return nil, ErrNoBackend
}
