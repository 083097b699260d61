// Package session implements the Session Registry: the process-wide
// mapping from bus object paths to live Session records, and the Session
// record itself.
package session

import (
	"fmt"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/vinput"
)

// SourceType is a bit-set of capturable source kinds.
type SourceType uint32

const (
	SourceMonitor SourceType = 1 << iota
	SourceWindow
	SourceVirtual
)

// SupportedSourceTypes is the process-wide capability set (§3).
const SupportedSourceTypes = SourceMonitor | SourceWindow

// CursorMode is a bit-set of cursor presentation modes.
type CursorMode uint32

const (
	CursorHidden CursorMode = 1 << iota
	CursorEmbedded
	CursorMetadata
)

// SupportedCursorModes is the process-wide capability set (§3).
const SupportedCursorModes = CursorHidden | CursorEmbedded

// DeviceType is a bit-set of remote-input device kinds.
type DeviceType uint32

const (
	DeviceKeyboard DeviceType = 1 << iota
	DevicePointer
	DeviceTouchScreen
)

// SupportedDeviceTypes is the process-wide capability set (§3).
const SupportedDeviceTypes = DeviceKeyboard | DevicePointer | DeviceTouchScreen

// PersistMode controls how long a session's selections survive.
type PersistMode uint32

const (
	PersistDoNot PersistMode = iota
	PersistApplicationLifetime
	PersistUntilRevoked
)

// Kind is the immutable category a Session is created with.
type Kind int

const (
	KindScreenCast Kind = iota
	KindRemote
	KindAccess
	KindInputCapture
)

func (k Kind) String() string {
	switch k {
	case KindScreenCast:
		return "screencast"
	case KindRemote:
		return "remote"
	case KindAccess:
		return "access"
	case KindInputCapture:
		return "input-capture"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Worker is anything a Session owns that must be torn down when the
// session closes: a CastJob or an InputWorker.
type Worker interface {
	Stop()
}

// InputWorker is the Virtual Input Thread handle a Session owns: Stop for
// the shared teardown path, plus Submit, the one entry point both
// RemoteDesktop's Notify* calls and the Input Event Server's consumer
// task route requests through.
type InputWorker interface {
	Worker
	Submit(req vinput.Request)
}
