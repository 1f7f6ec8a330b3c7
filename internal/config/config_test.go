package config

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
)

var envVars = []string{
	"GLASSPLAY_STATE_DIR", "GLASSPLAY_LOG_LEVEL", "GLASSPLAY_LOG_FILE",
	"GLASSPLAY_SAMPLE_RATE", "GLASSPLAY_FFT_SIZE", "GLASSPLAY_SMOOTHING",
	"GLASSPLAY_FPS", "GLASSPLAY_MODE", "GLASSPLAY_VOLUME",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("GLASSPLAY_STATE_DIR", dir)

	cfg := Load()

	if cfg.StateDir != dir {
		t.Errorf("StateDir = %q, want %q", cfg.StateDir, dir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.LogFile != filepath.Join(dir, "glassplay.log") {
		t.Errorf("LogFile = %q, want inside state dir", cfg.LogFile)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", cfg.SampleRate)
	}
	if cfg.FFTSize != 256 {
		t.Errorf("FFTSize = %d, want 256", cfg.FFTSize)
	}
	if cfg.Smoothing != 0.8 {
		t.Errorf("Smoothing = %f, want 0.8", cfg.Smoothing)
	}
	if cfg.FPS != 30 {
		t.Errorf("FPS = %d, want 30", cfg.FPS)
	}
	if cfg.Mode != "bars" {
		t.Errorf("Mode = %q, want bars", cfg.Mode)
	}
	if cfg.Volume != 0.8 {
		t.Errorf("Volume = %f, want 0.8", cfg.Volume)
	}
}

func TestLoadCustom(t *testing.T) {
	clearEnv(t)
	t.Setenv("GLASSPLAY_STATE_DIR", "/tmp/gp")
	t.Setenv("GLASSPLAY_LOG_FILE", "/tmp/gp.log")
	t.Setenv("GLASSPLAY_LOG_LEVEL", "debug")
	t.Setenv("GLASSPLAY_SAMPLE_RATE", "48000")
	t.Setenv("GLASSPLAY_FFT_SIZE", "2048")
	t.Setenv("GLASSPLAY_SMOOTHING", "0.5")
	t.Setenv("GLASSPLAY_FPS", "60")
	t.Setenv("GLASSPLAY_MODE", "radial")
	t.Setenv("GLASSPLAY_VOLUME", "0.25")

	cfg := Load()

	if cfg.StateDir != "/tmp/gp" || cfg.LogFile != "/tmp/gp.log" || cfg.LogLevel != "debug" {
		t.Errorf("paths/level = %q %q %q", cfg.StateDir, cfg.LogFile, cfg.LogLevel)
	}
	if cfg.SampleRate != 48000 || cfg.FFTSize != 2048 {
		t.Errorf("SampleRate/FFTSize = %d/%d, want 48000/2048", cfg.SampleRate, cfg.FFTSize)
	}
	if cfg.Smoothing != 0.5 || cfg.FPS != 60 || cfg.Mode != "radial" || cfg.Volume != 0.25 {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("GLASSPLAY_STATE_DIR", t.TempDir())
	t.Setenv("GLASSPLAY_SAMPLE_RATE", "-1")
	t.Setenv("GLASSPLAY_FFT_SIZE", "300")
	t.Setenv("GLASSPLAY_SMOOTHING", "1.5")
	t.Setenv("GLASSPLAY_FPS", "1000")
	t.Setenv("GLASSPLAY_VOLUME", "not-a-number")

	cfg := Load()

	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want default for negative", cfg.SampleRate)
	}
	if cfg.FFTSize != 256 {
		t.Errorf("FFTSize = %d, want default for non power of two", cfg.FFTSize)
	}
	if cfg.Smoothing >= 1 {
		t.Errorf("Smoothing = %f, want < 1", cfg.Smoothing)
	}
	if cfg.FPS != 120 {
		t.Errorf("FPS = %d, want clamped to 120", cfg.FPS)
	}
	if cfg.Volume != 0.8 {
		t.Errorf("Volume = %f, want default for unparsable value", cfg.Volume)
	}
}

func TestLoadClampsLowFPSAndVolume(t *testing.T) {
	clearEnv(t)
	t.Setenv("GLASSPLAY_STATE_DIR", t.TempDir())
	t.Setenv("GLASSPLAY_FPS", "0")
	t.Setenv("GLASSPLAY_VOLUME", "3")
	t.Setenv("GLASSPLAY_SMOOTHING", "-0.2")

	cfg := Load()

	if cfg.FPS != 1 {
		t.Errorf("FPS = %d, want 1", cfg.FPS)
	}
	if cfg.Volume != 1 {
		t.Errorf("Volume = %f, want 1", cfg.Volume)
	}
	if cfg.Smoothing != 0 {
		t.Errorf("Smoothing = %f, want 0", cfg.Smoothing)
	}
}

func TestLoadExpandsHomeInPaths(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	t.Setenv("GLASSPLAY_STATE_DIR", "~/.glassplay")

	cfg := Load()

	want := filepath.Join(home, ".glassplay")
	if cfg.StateDir != want {
		t.Errorf("StateDir = %q, want %q", cfg.StateDir, want)
	}
	if cfg.LogFile != filepath.Join(want, "glassplay.log") {
		t.Errorf("LogFile = %q, want inside expanded state dir", cfg.LogFile)
	}
}
