package broker

import "os"

// Mode is the Selection Broker's active strategy (§4.D).
type Mode int

const (
	ModeGUI Mode = iota
	ModeHeadless
)

// IsHeadless reports whether the environment selects headless mode
// (§6.8): WLR_BACKENDS=headless or LUMIOUS_HEADLESS=1.
func IsHeadless() bool {
	if os.Getenv("WLR_BACKENDS") == "headless" {
		return true
	}
	return os.Getenv("LUMIOUS_HEADLESS") == "1"
}

// Broker arbitrates one interactive selection at a time, dispatching to
// whichever mode the environment selected.
type Broker struct {
	mode     Mode
	gui      *GUIBroker
	headless *HeadlessBroker
}

// NewGUI constructs a Broker bound to GUI mode.
func NewGUI(dialog Collaborator) *Broker {
	return &Broker{mode: ModeGUI, gui: NewGUIBroker(dialog)}
}

// NewHeadless constructs a Broker bound to headless mode.
func NewHeadless(socketPath string) *Broker {
	return &Broker{mode: ModeHeadless, headless: NewHeadlessBroker(socketPath)}
}

// Mode reports the broker's active strategy.
func (b *Broker) Mode() Mode { return b.mode }

// Permission forwards Access.AccessDialog (§4.E) to the GUI collaborator.
// Headless mode has no permission-prompt surface; it is not exercised by
// InputCapture/RemoteDesktop grants in headless deployments.
func (b *Broker) Permission(text string) (bool, error) {
	if b.mode != ModeGUI {
		return false, ErrCancelled
	}
	return b.gui.Permission(text)
}

// OpenPicker arbitrates a screen/window selection, choosing GUI or
// headless transport per the active mode.
func (b *Broker) OpenPicker(screens []ScreenInfo, windows []WindowInfo) (Reply, error) {
	switch b.mode {
	case ModeHeadless:
		monitors := make([]string, len(screens))
		for i, s := range screens {
			monitors[i] = s.Name
		}
		return b.headless.Select(monitors)
	default:
		return b.gui.OpenPicker(screens, windows)
	}
}
