package broker

import "sync"

// Collaborator is the abstract display collaborator (§6.4): a typed
// bidirectional channel. One request is outstanding at a time.
type Collaborator interface {
	SendRequest(Request) error
	ReceiveReply() (Reply, error)
}

// GUIBroker implements GUI mode (§4.D): send one Request to the
// collaborator and await exactly one Reply.
type GUIBroker struct {
	mu     sync.Mutex
	dialog Collaborator
}

// NewGUIBroker wraps a display collaborator channel.
func NewGUIBroker(dialog Collaborator) *GUIBroker {
	return &GUIBroker{dialog: dialog}
}

// Select sends req and blocks for the single reply. Cancel, or loss of
// the collaborator channel, surfaces as ErrCancelled.
func (b *GUIBroker) Select(req Request) (Reply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.dialog.SendRequest(req); err != nil {
		return Reply{}, ErrCancelled
	}
	reply, err := b.dialog.ReceiveReply()
	if err != nil {
		return Reply{}, ErrCancelled
	}
	if reply.Kind == ReplyCancel {
		return Reply{}, ErrCancelled
	}
	return reply, nil
}

// Permission sends a PermissionPrompt and returns the accept/reject bool.
func (b *GUIBroker) Permission(text string) (bool, error) {
	reply, err := b.Select(Request{Kind: RequestPermissionPrompt, Text: text})
	if err != nil {
		return false, err
	}
	return reply.Permission, nil
}

// OpenPicker sends an OpenPicker request over screens/windows.
func (b *GUIBroker) OpenPicker(screens []ScreenInfo, windows []WindowInfo) (Reply, error) {
	return b.Select(Request{Kind: RequestOpenPicker, Screens: screens, Windows: windows})
}
