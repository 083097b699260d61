package broker

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type fakeCollaborator struct {
	sent   []Request
	replies chan Reply
	sendErr error
}

func (c *fakeCollaborator) SendRequest(req Request) error {
	c.sent = append(c.sent, req)
	return c.sendErr
}

func (c *fakeCollaborator) ReceiveReply() (Reply, error) {
	return <-c.replies, nil
}

func TestGUIBrokerSelectReturnsReply(t *testing.T) {
	collab := &fakeCollaborator{replies: make(chan Reply, 1)}
	collab.replies <- Reply{Kind: ReplyScreen, Index: 2, ShowCursor: true}

	b := NewGUIBroker(collab)
	reply, err := b.OpenPicker([]ScreenInfo{{Index: 0, Name: "DP-1"}}, nil)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if reply.Kind != ReplyScreen || reply.Index != 2 {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if len(collab.sent) != 1 || collab.sent[0].Kind != RequestOpenPicker {
		t.Fatalf("unexpected sent requests: %+v", collab.sent)
	}
}

func TestGUIBrokerCancelReplyMapsToErrCancelled(t *testing.T) {
	collab := &fakeCollaborator{replies: make(chan Reply, 1)}
	collab.replies <- Reply{Kind: ReplyCancel}

	b := NewGUIBroker(collab)
	_, err := b.OpenPicker(nil, nil)
	if err != ErrCancelled {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}

func TestGUIBrokerPermissionPromptRoundtrip(t *testing.T) {
	collab := &fakeCollaborator{replies: make(chan Reply, 1)}
	collab.replies <- Reply{Kind: ReplyPermission, Permission: true}

	b := NewGUIBroker(collab)
	ok, err := b.Permission("allow screen capture?")
	if err != nil {
		t.Fatalf("Permission error: %v", err)
	}
	if !ok {
		t.Fatal("expected granted permission")
	}
	if collab.sent[0].Kind != RequestPermissionPrompt || collab.sent[0].Text == "" {
		t.Fatalf("unexpected request: %+v", collab.sent[0])
	}
}

// fakeSelectorServer is a minimal stand-in for the external headless TTY
// helper (§6.5): accepts one connection, reads a framed request, writes
// back a pre-programmed framed response.
func fakeSelectorServer(t *testing.T, path string, response any) net.Listener {
	t.Helper()
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var req screenShareRequest
		if err := readFrame(conn, &req); err != nil {
			return
		}
		writeFrame(conn, response)
	}()
	return ln
}

func TestHeadlessBrokerSuccessResponse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "selector.sock")
	ln := fakeSelectorServer(t, path, selectorResponse{Type: "success", Index: 3})
	defer ln.Close()

	b := NewHeadlessBroker(path)
	reply, err := b.Select([]string{"DP-1", "DP-2"})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if reply.Kind != ReplyScreen || reply.Index != 3 {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestHeadlessBrokerBusyResponse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "selector.sock")
	ln := fakeSelectorServer(t, path, map[string]string{"type": "busy"})
	defer ln.Close()

	b := NewHeadlessBroker(path)
	_, err := b.Select([]string{"DP-1"})
	if err != ErrBusy {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
}

func TestHeadlessBrokerCancelResponse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "selector.sock")
	ln := fakeSelectorServer(t, path, map[string]string{"type": "cancel"})
	defer ln.Close()

	b := NewHeadlessBroker(path)
	_, err := b.Select([]string{"DP-1"})
	if err != ErrCancelled {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
}

func TestIsHeadlessRespectsEnvFlags(t *testing.T) {
	os.Unsetenv("WLR_BACKENDS")
	os.Unsetenv("LUMIOUS_HEADLESS")
	if IsHeadless() {
		t.Fatal("expected GUI mode by default")
	}

	os.Setenv("LUMIOUS_HEADLESS", "1")
	if !IsHeadless() {
		t.Fatal("expected headless mode via LUMIOUS_HEADLESS=1")
	}
	os.Unsetenv("LUMIOUS_HEADLESS")

	os.Setenv("WLR_BACKENDS", "headless")
	defer os.Unsetenv("WLR_BACKENDS")
	if !IsHeadless() {
		t.Fatal("expected headless mode via WLR_BACKENDS=headless")
	}
}

func TestHeadlessBrokerTimesOutIfHelperAbsent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.sock")

	b := NewHeadlessBroker(path)
	b.dialTimeout = 100 * time.Millisecond
	if _, err := b.Select(nil); err == nil {
		t.Fatal("expected dial error when helper socket does not exist")
	}
}
