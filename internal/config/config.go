// Package config provides configuration types and defaults for soundboard.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Tracing exporters.
const (
	ExporterFile = "file"
	ExporterOTLP = "otlp"
)

// Config holds all configuration options for soundboard.
type Config struct {
	DBPath              string         `mapstructure:"db_path"`
	AutoRefresh         bool           `mapstructure:"auto_refresh"`
	AutoRefreshDebounce time.Duration  `mapstructure:"auto_refresh_debounce"`
	Audio               AudioConfig    `mapstructure:"audio"`
	Recorder            RecorderConfig `mapstructure:"recorder"`
	UI                  UIConfig       `mapstructure:"ui"`
	Tracing             TracingConfig  `mapstructure:"tracing"`
}

// AudioConfig holds playback options.
type AudioConfig struct {
	SampleRate    int           `mapstructure:"sample_rate"`
	Buffer        time.Duration `mapstructure:"buffer"`
	DefaultVolume float64       `mapstructure:"default_volume"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	MaxFetchBytes int64         `mapstructure:"max_fetch_bytes"`
}

// RecorderConfig holds microphone capture options.
type RecorderConfig struct {
	// Device is a capture device name; empty uses the system default.
	Device      string        `mapstructure:"device"`
	SampleRate  int           `mapstructure:"sample_rate"`
	Channels    int           `mapstructure:"channels"`
	MaxDuration time.Duration `mapstructure:"max_duration"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	Columns       int  `mapstructure:"columns"`
	ShowDurations bool `mapstructure:"show_durations"`
}

// TracingConfig controls OpenTelemetry tracing.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Exporter is "file" (stdout-format spans to File) or "otlp" (gRPC to Endpoint).
	Exporter string `mapstructure:"exporter"`
	File     string `mapstructure:"file"`
	Endpoint string `mapstructure:"endpoint"`
}

// Defaults returns a Config with sensible default values.
// DBPath is left empty; callers resolve it against the data directory.
func Defaults() Config {
	return Config{
		AutoRefresh:         true,
		AutoRefreshDebounce: 300 * time.Millisecond,
		Audio: AudioConfig{
			SampleRate:    44100,
			Buffer:        100 * time.Millisecond,
			DefaultVolume: 1,
			FetchTimeout:  15 * time.Second,
			MaxFetchBytes: 20 << 20,
		},
		Recorder: RecorderConfig{
			SampleRate:  44100,
			Channels:    1,
			MaxDuration: 2 * time.Minute,
		},
		UI: UIConfig{
			Columns:       4,
			ShowDurations: true,
		},
		Tracing: TracingConfig{
			Exporter: ExporterFile,
		},
	}
}

// SetDefaults registers Defaults with v so unset keys unmarshal to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("auto_refresh", d.AutoRefresh)
	v.SetDefault("auto_refresh_debounce", d.AutoRefreshDebounce)
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.buffer", d.Audio.Buffer)
	v.SetDefault("audio.default_volume", d.Audio.DefaultVolume)
	v.SetDefault("audio.fetch_timeout", d.Audio.FetchTimeout)
	v.SetDefault("audio.max_fetch_bytes", d.Audio.MaxFetchBytes)
	v.SetDefault("recorder.device", d.Recorder.Device)
	v.SetDefault("recorder.sample_rate", d.Recorder.SampleRate)
	v.SetDefault("recorder.channels", d.Recorder.Channels)
	v.SetDefault("recorder.max_duration", d.Recorder.MaxDuration)
	v.SetDefault("ui.columns", d.UI.Columns)
	v.SetDefault("ui.show_durations", d.UI.ShowDurations)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file", d.Tracing.File)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
}

// EnvPrefix prefixes environment overrides, e.g. SOUNDBOARD_AUDIO_DEFAULT_VOLUME.
const EnvPrefix = "SOUNDBOARD"

// EnvKeyReplacer maps nested keys to environment variable names.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	var errs []error
	if c.AutoRefreshDebounce < 0 {
		errs = append(errs, errors.New("auto_refresh_debounce must not be negative"))
	}
	if err := c.Audio.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Recorder.validate(); err != nil {
		errs = append(errs, err)
	}
	if c.UI.Columns < 1 || c.UI.Columns > 12 {
		errs = append(errs, fmt.Errorf("ui.columns must be between 1 and 12, got %d", c.UI.Columns))
	}
	if err := c.Tracing.validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a AudioConfig) validate() error {
	switch {
	case a.SampleRate <= 0:
		return fmt.Errorf("audio.sample_rate must be positive, got %d", a.SampleRate)
	case a.Buffer <= 0:
		return fmt.Errorf("audio.buffer must be positive, got %s", a.Buffer)
	case a.DefaultVolume < 0 || a.DefaultVolume > 1:
		return fmt.Errorf("audio.default_volume must be between 0 and 1, got %g", a.DefaultVolume)
	case a.FetchTimeout <= 0:
		return fmt.Errorf("audio.fetch_timeout must be positive, got %s", a.FetchTimeout)
	case a.MaxFetchBytes <= 0:
		return fmt.Errorf("audio.max_fetch_bytes must be positive, got %d", a.MaxFetchBytes)
	}
	return nil
}

func (r RecorderConfig) validate() error {
	switch {
	case r.SampleRate <= 0:
		return fmt.Errorf("recorder.sample_rate must be positive, got %d", r.SampleRate)
	case r.Channels != 1 && r.Channels != 2:
		return fmt.Errorf("recorder.channels must be 1 or 2, got %d", r.Channels)
	case r.MaxDuration < 0:
		return fmt.Errorf("recorder.max_duration must not be negative, got %s", r.MaxDuration)
	}
	return nil
}

func (t TracingConfig) validate() error {
	if !t.Enabled {
		return nil
	}
	switch t.Exporter {
	case ExporterFile:
		return nil
	case ExporterOTLP:
		if t.Endpoint == "" {
			return errors.New("tracing.endpoint is required for the otlp exporter")
		}
		return nil
	default:
		return fmt.Errorf("tracing.exporter must be %q or %q, got %q", ExporterFile, ExporterOTLP, t.Exporter)
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Soundboard Configuration

# Path to the sound database (default: <data dir>/soundboard.db)
# db_path: /path/to/soundboard.db

# Reload the board when another process changes the database
auto_refresh: true
auto_refresh_debounce: 300ms

# Playback
audio:
  sample_rate: 44100       # Speaker sample rate; clips are resampled to it
  buffer: 100ms            # Speaker buffer; lower is snappier, higher is steadier
  default_volume: 1.0      # Initial board volume (0.0 - 1.0)
  fetch_timeout: 15s       # Timeout for http(s) sound URLs
  max_fetch_bytes: 20971520

# Microphone recording
recorder:
  # device: "USB Audio"    # Capture device name (run 'soundboard devices'); default device if unset
  sample_rate: 44100
  channels: 1
  max_duration: 2m         # Audio past this length is dropped (0 = unlimited)

# UI settings
ui:
  columns: 4               # Pads per row
  show_durations: true     # Show clip length on pads once loaded

# OpenTelemetry tracing (off by default)
tracing:
  enabled: false
  exporter: file           # "file" or "otlp"
  # file: /tmp/soundboard-traces.json
  # endpoint: localhost:4317
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
