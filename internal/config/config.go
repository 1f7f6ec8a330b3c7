package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/mitchellh/go-homedir"
	"github.com/olivier-w/glassplay/internal/audiograph"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Persistence
	StateDir string

	// Logging
	LogLevel string
	LogFile  string

	// Audio engine
	SampleRate int
	FFTSize    int
	Smoothing  float64 // analyser time constant in [0, 1)

	// Visualizer
	FPS  int
	Mode string // bars, waveform or radial

	Volume float64 // startup volume when no state is saved
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	stateDir := envPath("GLASSPLAY_STATE_DIR", defaultStateDir())
	cfg := Config{
		StateDir: stateDir,

		LogLevel: envStr("GLASSPLAY_LOG_LEVEL", "info"),
		LogFile:  envPath("GLASSPLAY_LOG_FILE", filepath.Join(stateDir, "glassplay.log")),

		SampleRate: envInt("GLASSPLAY_SAMPLE_RATE", audiograph.DefaultSampleRate),
		FFTSize:    envInt("GLASSPLAY_FFT_SIZE", audiograph.DefaultFFTSize),
		Smoothing:  envFloat("GLASSPLAY_SMOOTHING", audiograph.DefaultSmoothing),

		FPS:  envInt("GLASSPLAY_FPS", 30),
		Mode: envStr("GLASSPLAY_MODE", "bars"),

		Volume: envFloat("GLASSPLAY_VOLUME", 0.8),
	}

	if cfg.SampleRate <= 0 {
		cfg.SampleRate = audiograph.DefaultSampleRate
	}
	if !audiograph.ValidFFTSize(cfg.FFTSize) {
		cfg.FFTSize = audiograph.DefaultFFTSize
	}
	if cfg.Smoothing < 0 {
		cfg.Smoothing = 0
	}
	if cfg.Smoothing >= 1 {
		cfg.Smoothing = 0.99
	}
	cfg.FPS = min(max(cfg.FPS, 1), 120)
	cfg.Volume = min(max(cfg.Volume, 0), 1)
	return cfg
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".glassplay"
	}
	return filepath.Join(dir, "glassplay")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envPath is envStr with a leading ~ expanded to the home directory.
func envPath(key, fallback string) string {
	v := envStr(key, fallback)
	if p, err := homedir.Expand(v); err == nil {
		return p
	}
	return v
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
