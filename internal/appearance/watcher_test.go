package appearance

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type change struct {
	key   string
	value uint32
	rgb   [3]float64
}

func TestWatcherEmitsAllFourOnModify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`color_scheme = "default"`), 0o644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var changes []change
	done := make(chan struct{}, 4)

	w := NewWatcher(path, func(key string, value uint32, rgb [3]float64) {
		mu.Lock()
		changes = append(changes, change{key, value, rgb})
		mu.Unlock()
		done <- struct{}{}
	})
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`color_scheme = "dark"
accent_color = "#00ff00"
contrast = "higher"
reduced_motion = "reduced"
`), 0o644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for change %d", i)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(changes) != 4 {
		t.Fatalf("got %d changes, want 4: %+v", len(changes), changes)
	}
	wantKeys := []string{"color-scheme", "accent-color", "contrast", "reduced-motion"}
	for i, c := range changes {
		if c.key != wantKeys[i] {
			t.Fatalf("change %d key = %q, want %q", i, c.key, wantKeys[i])
		}
	}
	if changes[0].value != ColorSchemeDark {
		t.Fatalf("color-scheme value = %d, want dark", changes[0].value)
	}
	if changes[2].value != ContrastHigher {
		t.Fatalf("contrast value = %d, want higher", changes[2].value)
	}

	current := w.Current()
	if current.ColorScheme != "dark" {
		t.Fatalf("Current().ColorScheme = %q, want dark", current.ColorScheme)
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	os.WriteFile(path, []byte(``), 0o644)

	calls := 0
	w := NewWatcher(path, func(string, uint32, [3]float64) { calls++ })
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644)
	time.Sleep(200 * time.Millisecond)

	if calls != 0 {
		t.Fatalf("expected no changes for an unrelated file, got %d", calls)
	}
}
