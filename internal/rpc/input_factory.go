package rpc

import "github.com/waycrate/xdg-desktop-portal-luminous/internal/vinput"

// InputFactory binds a fresh virtual keyboard/pointer pair and keysym
// resolver for one Remote Desktop session's Virtual Input Thread (4.B).
// Abstracted so the dispatcher's Start/Notify* logic is testable without
// the cgo xkbcommon binding or a live Wayland connection.
type InputFactory interface {
	NewWorker(geom vinput.Geometry, onDead func()) (*vinput.Worker, error)
}
