package appearance

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if cfg != Default() {
		t.Fatalf("got %+v, want Default()", cfg)
	}
}

func TestLoadMalformedFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not valid [[[ toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Load(path)
	if cfg != Default() {
		t.Fatalf("got %+v, want Default()", cfg)
	}
}

func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `color_scheme = "dark"
accent_color = "#ff0000"
contrast = "higher"
reduced_motion = "reduced"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Load(path)
	if cfg.ColorSchemeCode() != ColorSchemeDark {
		t.Fatalf("color scheme = %d, want dark", cfg.ColorSchemeCode())
	}
	if cfg.ContrastCode() != ContrastHigher {
		t.Fatalf("contrast = %d, want higher", cfg.ContrastCode())
	}
	if cfg.ReducedMotionCode() != ReducedMotionReduced {
		t.Fatalf("reduced motion = %d, want reduced", cfg.ReducedMotionCode())
	}
}

func TestAccentColorTripleParsesHex(t *testing.T) {
	cfg := Config{AccentColor: "#ff0000"}
	rgb := cfg.AccentColorTriple()
	want := [3]float64{255.0 / 256.0, 0, 0}
	if rgb != want {
		t.Fatalf("rgb = %v, want %v", rgb, want)
	}
}

func TestAccentColorTripleFallsBackOnInvalid(t *testing.T) {
	cfg := Config{AccentColor: "not-a-color"}
	rgb := cfg.AccentColorTriple()
	want := [3]float64{255.0 / 256.0, 255.0 / 256.0, 255.0 / 256.0}
	if rgb != want {
		t.Fatalf("rgb = %v, want %v", rgb, want)
	}
}

func TestDefaultColorSchemeCode(t *testing.T) {
	cfg := Default()
	if cfg.ColorSchemeCode() != ColorSchemeDefault {
		t.Fatalf("default color scheme code = %d", cfg.ColorSchemeCode())
	}
	if cfg.ContrastCode() != ContrastDefault {
		t.Fatalf("default contrast code = %d", cfg.ContrastCode())
	}
	if cfg.ReducedMotionCode() != ReducedMotionDefault {
		t.Fatalf("default reduced motion code = %d", cfg.ReducedMotionCode())
	}
}
