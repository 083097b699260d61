package config

import "testing"

func TestValidateUnknownLogLevelIsWarning(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	errs := cfg.Validate()
	if len(errs) == 0 {
		t.Fatal("expected warning for unknown log level")
	}
}

func TestValidateInvalidLogFormatIsWarning(t *testing.T) {
	cfg := Default()
	cfg.LogFormat = "xml"
	errs := cfg.Validate()
	if len(errs) == 0 {
		t.Fatal("expected warning for invalid log format")
	}
}

func TestValidateNegativeMaxSessionsClamps(t *testing.T) {
	cfg := Default()
	cfg.MaxConcurrentSessions = -5
	errs := cfg.Validate()
	if len(errs) == 0 {
		t.Fatal("expected warning for negative max_concurrent_sessions")
	}
	if cfg.MaxConcurrentSessions != 0 {
		t.Fatalf("MaxConcurrentSessions = %d, want 0 (clamped)", cfg.MaxConcurrentSessions)
	}
}

func TestValidDefaultConfigHasNoErrors(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Fatalf("default config has errors: %v", errs)
	}
}

func TestRuntimeDirOrDefaultFallsBackToTmp(t *testing.T) {
	cfg := Default()
	t.Setenv("XDG_RUNTIME_DIR", "")
	if got := cfg.RuntimeDirOrDefault(); got != "/tmp" {
		t.Fatalf("RuntimeDirOrDefault() = %q, want /tmp", got)
	}
}

func TestRuntimeDirOrDefaultPrefersEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := cfg.RuntimeDirOrDefault(); got != "/run/user/1000" {
		t.Fatalf("RuntimeDirOrDefault() = %q, want /run/user/1000", got)
	}
}

func TestRuntimeDirOrDefaultPrefersExplicitOverride(t *testing.T) {
	cfg := Default()
	cfg.RuntimeDir = "/custom/runtime"
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := cfg.RuntimeDirOrDefault(); got != "/custom/runtime" {
		t.Fatalf("RuntimeDirOrDefault() = %q, want /custom/runtime", got)
	}
}

func TestHeadlessSocketPathOrDefault(t *testing.T) {
	cfg := Default()
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	want := "/run/user/1000/luminus_selector.sock"
	if got := cfg.HeadlessSocketPathOrDefault(); got != want {
		t.Fatalf("HeadlessSocketPathOrDefault() = %q, want %q", got, want)
	}
}
