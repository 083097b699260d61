package rpc

import (
	"github.com/godbus/dbus/v5"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/capture"
	"github.com/waycrate/xdg-desktop-portal-luminous/internal/session"
)

// ScreenCast implements org.freedesktop.impl.portal.ScreenCast (§4.E).
type ScreenCast struct {
	d *Dispatcher
}

func (s *ScreenCast) Version() (uint32, *dbus.Error) { return 1, nil }

func (s *ScreenCast) AvailableSourceTypes() (uint32, *dbus.Error) {
	return uint32(session.SupportedSourceTypes), nil
}

func (s *ScreenCast) AvailableCursorModes() (uint32, *dbus.Error) {
	return uint32(session.SupportedCursorModes), nil
}

// CreateSession binds a new ScreenCast session at session_handle.
func (s *ScreenCast) CreateSession(requestHandle, sessionHandle dbus.ObjectPath, appID string, options dict) (uint32, dict, *dbus.Error) {
	req, err := NewRequest(s.d.exporter(), requestHandle)
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	defer req.Release()

	sess := session.New(string(sessionHandle), session.KindScreenCast)
	sess.SetAppID(appID)
	if err := s.d.registry.Append(sess); err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	return uint32(ResponseSuccess), dict{"session_handle": v(string(sessionHandle))}, nil
}

// SelectSources merges the caller's option fields into the session
// (§4.E: "unknown options are ignored").
func (s *ScreenCast) SelectSources(requestHandle, sessionHandle dbus.ObjectPath, options dict) (uint32, dict, *dbus.Error) {
	sess := s.d.sessionByHandle(sessionHandle)
	if sess == nil {
		return uint32(ResponseOther), dict{}, nil
	}

	var opts session.Options
	if n, ok := optUint32(options, "types"); ok {
		st := session.SourceType(n)
		opts.SourceTypes = &st
	}
	if b, ok := optBool(options, "multiple"); ok {
		opts.Multiple = &b
	}
	if n, ok := optUint32(options, "cursor_mode"); ok {
		cm := session.CursorMode(n)
		opts.CursorMode = &cm
	}
	if n, ok := optUint32(options, "persist_mode"); ok {
		pm := session.PersistMode(n)
		opts.PersistMode = &pm
	}
	if tok, ok := optString(options, "restore_token"); ok {
		opts.RestoreToken = &tok
	}
	sess.UpdateOptions(opts)
	return uint32(ResponseSuccess), dict{}, nil
}

// Start resolves the session's chosen source to a capture.Target via the
// Selection Broker and starts its CastJob, returning at least one Stream.
func (s *ScreenCast) Start(requestHandle, sessionHandle dbus.ObjectPath, appID, parentWindow string, options dict) (uint32, dict, *dbus.Error) {
	sess := s.d.sessionByHandle(sessionHandle)
	if sess == nil {
		return uint32(ResponseOther), dict{}, nil
	}
	if ids := sess.NodeIDs(); len(ids) > 0 {
		return uint32(ResponseSuccess), dict{"streams": v(streamsFor(ids))}, nil
	}

	target, cancelled, err := s.d.pickTarget()
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	if cancelled {
		return uint32(ResponseCancelled), dict{}, nil
	}

	snap := sess.Snapshot()
	job := capture.Job{Target: target, OverlayCursor: snap.CursorMode&session.CursorEmbedded != 0}
	worker := capture.NewWorker(job, s.d.capturer, s.d.graph)
	nodeID, err := worker.Start()
	if err != nil {
		return uint32(ResponseOther), dict{"error": v(err.Error())}, nil
	}
	sess.SetCastWorker(worker)
	sess.RememberNodeIDs([]uint32{nodeID})
	go worker.Wait()

	return uint32(ResponseSuccess), dict{"streams": v(streamsFor(sess.NodeIDs()))}, nil
}

// streamsFor builds the a(ua{sv}) Stream array the wire protocol expects,
// one empty-properties entry per node id.
func streamsFor(ids []uint32) [][]any {
	streams := make([][]any, len(ids))
	for i, id := range ids {
		streams[i] = []any{id, dict{}}
	}
	return streams
}
