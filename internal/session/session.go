package session

import (
	"sync"
)

// Zone is the geometry advertised to an InputCapture client, learned once
// at session creation time and reused by GetZones rather than recomputed
// per call.
type Zone struct {
	XOffset int32
	YOffset int32
	Width   int32
	Height  int32
}

// Options carries the optional, mergeable fields set by SelectSources /
// SelectDevices. Pointer fields distinguish "not supplied" from a
// zero-value, so update_options only mutates what the caller actually set.
type Options struct {
	SourceTypes *SourceType
	Multiple    *bool
	CursorMode  *CursorMode
	PersistMode *PersistMode
	RestoreToken *string

	DeviceTypes *DeviceType
}

// Session is the central entity keyed by a bus object path (§3).
type Session struct {
	mu sync.Mutex

	handle string
	kind   Kind

	sourceTypes SourceType
	multiple    bool
	cursorMode  CursorMode
	persistMode PersistMode
	deviceTypes DeviceType

	restoreToken string

	// zone is populated once at creation for InputCapture sessions
	// (§12): GetZones reuses it rather than re-querying
	// compositor geometry on every call.
	zone Zone

	// appID identifies the caller for permission-prompt bookkeeping; empty
	// for sessions created before any permission check ran.
	appID string
	// permissionGranted records whether the Access dialog has already
	// approved this app for interactive capture, so repeated Screenshot
	// calls don't reprompt.
	permissionGranted bool

	castWorker  Worker
	inputWorker InputWorker

	// nodeIDs caches the stream node ids returned by the first successful
	// Start call, so a repeat Start is idempotent (§8 property 1).
	nodeIDs []uint32

	closed bool
}

// New creates a Session of the given kind with default option values.
// kind is immutable for the lifetime of the session.
func New(handle string, kind Kind) *Session {
	return &Session{
		handle:      handle,
		kind:        kind,
		sourceTypes: SourceMonitor,
		cursorMode:  CursorHidden,
		persistMode: PersistDoNot,
	}
}

// Handle returns the session's bus object path.
func (s *Session) Handle() string { return s.handle }

// Kind returns the session's immutable kind.
func (s *Session) Kind() Kind { return s.kind }

// SetAppID records the calling app id, used for permission bookkeeping.
func (s *Session) SetAppID(appID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appID = appID
}

// AppID returns the calling app id.
func (s *Session) AppID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appID
}

// PermissionGranted reports whether the Access dialog already approved
// this session's app for interactive capture.
func (s *Session) PermissionGranted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permissionGranted
}

// GrantPermission marks the session's app as permission-checked.
func (s *Session) GrantPermission() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permissionGranted = true
}

// UpdateOptions atomically merges the supplied fields (only those set) into
// the session's option state. Fields not applicable to the session's kind
// are silently ignored per §4.E ("unknown options are ignored").
func (s *Session) UpdateOptions(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.SourceTypes != nil {
		s.sourceTypes = *opts.SourceTypes
	}
	if opts.Multiple != nil {
		s.multiple = *opts.Multiple
	}
	if opts.CursorMode != nil {
		s.cursorMode = *opts.CursorMode
	}
	if opts.PersistMode != nil {
		s.persistMode = *opts.PersistMode
	}
	if opts.RestoreToken != nil {
		s.restoreToken = *opts.RestoreToken
	}
	if opts.DeviceTypes != nil && s.kind == KindRemote {
		s.deviceTypes = *opts.DeviceTypes
	}
}

// Snapshot is a read-only copy of a session's option state, safe to read
// without holding the session's lock.
type Snapshot struct {
	Handle       string
	Kind         Kind
	SourceTypes  SourceType
	Multiple     bool
	CursorMode   CursorMode
	PersistMode  PersistMode
	DeviceTypes  DeviceType
	RestoreToken string
	Zone         Zone
	Closed       bool
}

// Snapshot returns a copy of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Handle:       s.handle,
		Kind:         s.kind,
		SourceTypes:  s.sourceTypes,
		Multiple:     s.multiple,
		CursorMode:   s.cursorMode,
		PersistMode:  s.persistMode,
		DeviceTypes:  s.deviceTypes,
		RestoreToken: s.restoreToken,
		Zone:         s.zone,
		Closed:       s.closed,
	}
}

// SetZone records the compositor geometry learned at session creation.
func (s *Session) SetZone(z Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zone = z
}

// SetCastWorker attaches the cast worker this session owns.
func (s *Session) SetCastWorker(w Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.castWorker = w
}

// SetInputWorker attaches the input worker this session owns.
func (s *Session) SetInputWorker(w InputWorker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputWorker = w
}

// InputWorker returns the session's input worker, or nil if none is
// attached (e.g. this isn't a Remote session, or ClearInputWorker ran).
func (s *Session) InputWorker() InputWorker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputWorker
}

// ClearInputWorker detaches the input worker without stopping it and
// without touching the cast side. RemoteDesktop passes it to the input
// worker as its onDead callback, which the worker never calls.
func (s *Session) ClearInputWorker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputWorker = nil
}

// RememberNodeIDs stores the stream node ids from the first successful
// Start, so a repeat Start can return them unchanged.
func (s *Session) RememberNodeIDs(ids []uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nodeIDs == nil {
		s.nodeIDs = ids
	}
}

// NodeIDs returns the remembered stream node ids, or nil if Start has not
// yet succeeded.
func (s *Session) NodeIDs() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodeIDs
}

// IsClosed reports whether Close has already run.
func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close tears down owned workers and marks the session closed. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cast, input := s.castWorker, s.inputWorker
	s.castWorker, s.inputWorker = nil, nil
	s.mu.Unlock()

	if cast != nil {
		cast.Stop()
	}
	if input != nil {
		input.Stop()
	}
}
