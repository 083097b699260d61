package session

import (
	"testing"

	"github.com/waycrate/xdg-desktop-portal-luminous/internal/vinput"
)

type fakeWorker struct {
	stopped bool
}

func (f *fakeWorker) Stop() { f.stopped = true }

type fakeInputWorker struct {
	fakeWorker
	submitted []vinput.Request
}

func (f *fakeInputWorker) Submit(req vinput.Request) { f.submitted = append(f.submitted, req) }

func TestAppendRejectsDuplicateHandle(t *testing.T) {
	r := NewRegistry()
	s := New("/p/s1", KindScreenCast)
	if err := r.Append(s); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := r.Append(New("/p/s1", KindScreenCast)); err == nil {
		t.Fatal("expected error appending duplicate handle")
	}
}

func TestFindReturnsNilForAbsentHandle(t *testing.T) {
	r := NewRegistry()
	if r.Find("/p/missing") != nil {
		t.Fatal("expected nil for absent handle")
	}
}

func TestRemoveStopsOwnedWorkers(t *testing.T) {
	r := NewRegistry()
	s := New("/p/s1", KindRemote)
	cast := &fakeWorker{}
	input := &fakeInputWorker{}
	s.SetCastWorker(cast)
	s.SetInputWorker(input)
	if err := r.Append(s); err != nil {
		t.Fatal(err)
	}

	r.Remove("/p/s1")

	if !cast.stopped {
		t.Fatal("expected cast worker stopped")
	}
	if !input.stopped {
		t.Fatal("expected input worker stopped")
	}
	if r.Find("/p/s1") != nil {
		t.Fatal("expected session removed from registry")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Remove("/p/never-existed")
	r.Remove("/p/never-existed")
}

func TestHandleNeverReusedAfterRemove(t *testing.T) {
	r := NewRegistry()
	s := New("/p/s1", KindScreenCast)
	if err := r.Append(s); err != nil {
		t.Fatal(err)
	}
	r.Remove("/p/s1")

	if !r.WasEverRegistered("/p/s1") {
		t.Fatal("expected handle to be remembered as previously registered")
	}
	if err := r.Append(New("/p/s1", KindScreenCast)); err == nil {
		t.Fatal("expected Append to reject a removed handle")
	}
}

func TestUpdateOptionsOnlyMutatesSuppliedFields(t *testing.T) {
	s := New("/p/s1", KindScreenCast)
	monitor := SourceMonitor
	s.UpdateOptions(Options{SourceTypes: &monitor})

	before := s.Snapshot()
	multiple := true
	s.UpdateOptions(Options{Multiple: &multiple})
	after := s.Snapshot()

	if after.SourceTypes != before.SourceTypes {
		t.Fatalf("SourceTypes changed unexpectedly: %v -> %v", before.SourceTypes, after.SourceTypes)
	}
	if !after.Multiple {
		t.Fatal("expected Multiple to be set")
	}
}

func TestCloseIsIdempotentAndStopsOnce(t *testing.T) {
	s := New("/p/s1", KindScreenCast)
	w := &fakeWorker{}
	s.SetCastWorker(w)

	s.Close()
	s.Close()

	if !w.stopped {
		t.Fatal("expected worker stopped")
	}
	if !s.IsClosed() {
		t.Fatal("expected session marked closed")
	}
}

func TestStartIdempotentNodeIDs(t *testing.T) {
	s := New("/p/s1", KindScreenCast)
	s.RememberNodeIDs([]uint32{42})
	s.RememberNodeIDs([]uint32{99}) // must not overwrite

	ids := s.NodeIDs()
	if len(ids) != 1 || ids[0] != 42 {
		t.Fatalf("NodeIDs() = %v, want [42]", ids)
	}
}
