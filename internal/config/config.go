package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Run modes of the command line tool.
const (
	ModePlay     = "play"
	ModePreview  = "preview"
	ModeServe    = "serve"
	ModeExport   = "export"
	ModeSnapshot = "snapshot"
)

var modes = []string{ModePlay, ModePreview, ModeServe, ModeExport, ModeSnapshot}

type Config struct {
	ProjectPath  string
	ProjectsDir  string
	StylePath    string
	Mode         string
	TickInterval time.Duration
	ListenAddr   string
	SRTOutput    string
	ASSOutput    string
	FrameOutput  string
	SnapshotTime float64
	Width        int
	Height       int
	Preset       string
	ProbeAudio   bool
	Workers      int
	ShowQR       bool
	Debug        bool
}

// Load builds the defaults from the environment. Variables in envFile are
// loaded first when the file exists; variables already set win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		ProjectPath:  getEnv("CAPTIONSYNC_PROJECT", ""),
		ProjectsDir:  getEnv("CAPTIONSYNC_PROJECTS_DIR", "input/projects"),
		StylePath:    getEnv("CAPTIONSYNC_STYLE", ""),
		Mode:         getEnv("CAPTIONSYNC_MODE", ModePlay),
		TickInterval: getEnvDuration("CAPTIONSYNC_TICK", 100*time.Millisecond),
		ListenAddr:   getEnv("CAPTIONSYNC_ADDR", ":8080"),
		SRTOutput:    getEnv("CAPTIONSYNC_SRT", ""),
		ASSOutput:    getEnv("CAPTIONSYNC_ASS", ""),
		FrameOutput:  getEnv("CAPTIONSYNC_FRAME", ""),
		SnapshotTime: getEnvFloat("CAPTIONSYNC_AT", 0),
		Width:        getEnvInt("CAPTIONSYNC_WIDTH", 1280),
		Height:       getEnvInt("CAPTIONSYNC_HEIGHT", 720),
		Preset:       getEnv("CAPTIONSYNC_PRESET", ""),
		ProbeAudio:   getEnvBool("CAPTIONSYNC_PROBE_AUDIO", false),
		Workers:      getEnvInt("CAPTIONSYNC_WORKERS", runtime.NumCPU()),
		ShowQR:       getEnvBool("CAPTIONSYNC_QR", true),
		Debug:        getEnvBool("CAPTIONSYNC_DEBUG", false),
	}
	return cfg, nil
}

// ApplyPreset overrides Width and Height for a known aspect preset.
func (c *Config) ApplyPreset() {
	switch c.Preset {
	case "16:9":
		c.Width, c.Height = 1280, 720
	case "9:16":
		c.Width, c.Height = 720, 1280
	case "4:5":
		c.Width, c.Height = 1080, 1350
	}
}

// Validate checks the fields the run modes depend on.
func (c *Config) Validate() error {
	known := false
	for _, m := range modes {
		if c.Mode == m {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown mode %q, want one of %s", c.Mode, strings.Join(modes, ", "))
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.Mode == ModeExport && c.SRTOutput == "" && c.ASSOutput == "" {
		return errors.New("export mode needs an SRT or ASS output path")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
