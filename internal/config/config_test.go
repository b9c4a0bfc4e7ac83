package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected error for explicit missing config file")
	}

	// Without an explicit path, a missing file falls back to defaults.
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Detection.ConfidenceThreshold != 0.5 {
		t.Errorf("confidence threshold = %v, want 0.5", cfg.Detection.ConfidenceThreshold)
	}
	if cfg.Detection.Debounce != 500*time.Millisecond {
		t.Errorf("debounce = %v, want 500ms", cfg.Detection.Debounce)
	}
	if cfg.Detection.GracePeriod != 10*time.Second {
		t.Errorf("grace period = %v, want 10s", cfg.Detection.GracePeriod)
	}
	if cfg.Detection.AbsenceTimeout != 3*time.Second {
		t.Errorf("absence timeout = %v, want 3s", cfg.Detection.AbsenceTimeout)
	}
	if cfg.Detection.NormalBrightness != 100 || cfg.Detection.SlouchingBrightness != 20 {
		t.Errorf("brightness defaults = %d/%d, want 100/20",
			cfg.Detection.NormalBrightness, cfg.Detection.SlouchingBrightness)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	os.Setenv("POSTURIFY_ROBOFLOW_API_KEY", "test-key")
	os.Setenv("POSTURIFY_LOG_LEVEL", "debug")
	defer os.Unsetenv("POSTURIFY_ROBOFLOW_API_KEY")
	defer os.Unsetenv("POSTURIFY_LOG_LEVEL")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Roboflow.APIKey != "test-key" {
		t.Errorf("api key = %q, want test-key", cfg.Roboflow.APIKey)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posturify.yaml")
	data := []byte(`
detection:
  slouching_brightness: 35
  frame_stride: 2
dashboard:
  port: 9999
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Detection.SlouchingBrightness != 35 {
		t.Errorf("slouching brightness = %d, want 35", cfg.Detection.SlouchingBrightness)
	}
	if cfg.Detection.FrameStride != 2 {
		t.Errorf("frame stride = %d, want 2", cfg.Detection.FrameStride)
	}
	if cfg.Dashboard.Port != 9999 {
		t.Errorf("dashboard port = %d, want 9999", cfg.Dashboard.Port)
	}
	// Untouched values keep defaults.
	if cfg.Detection.NormalBrightness != 100 {
		t.Errorf("normal brightness = %d, want 100", cfg.Detection.NormalBrightness)
	}
}

func TestValidate_Rejects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posturify.yaml")
	data := []byte("detection:\n  normal_brightness: 150\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for brightness > 100")
	}
}

func TestMissingCredentials(t *testing.T) {
	cfg := &Config{}
	missing := cfg.MissingCredentials()
	if len(missing) != 4 {
		t.Fatalf("missing = %v, want 4 entries", missing)
	}

	cfg.Roboflow.APIKey = "k"
	cfg.Roboflow.Project = "p"
	cfg.Spotify.ClientID = "id"
	cfg.Spotify.ClientSecret = "secret"
	if got := cfg.MissingCredentials(); len(got) != 0 {
		t.Errorf("missing = %v, want none", got)
	}
}
