// Package config holds cardvoice settings loaded from the config file,
// flags and environment.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/dgnsrekt/cardvoice/internal/speech"
	"github.com/dgnsrekt/cardvoice/internal/speech/hosts/espeak"
)

// Host names.
const (
	HostEspeak = "espeak"
	HostMock   = "mock"
)

// Config contains all cardvoice configuration options.
type Config struct {
	// Speech host: espeak or mock
	Host string `yaml:"host" mapstructure:"host"`

	Speech SpeechConfig `yaml:"speech" mapstructure:"speech"`
	Espeak EspeakConfig `yaml:"espeak" mapstructure:"espeak"`
	Mock   MockConfig   `yaml:"mock" mapstructure:"mock"`
	Deck   DeckConfig   `yaml:"deck" mapstructure:"deck"`
}

// SpeechConfig contains voice resolution and prosody settings.
type SpeechConfig struct {
	ResolveTimeout time.Duration `yaml:"resolve_timeout" mapstructure:"resolve_timeout"`
	PollInterval   time.Duration `yaml:"poll_interval" mapstructure:"poll_interval"`
	Rate           float64       `yaml:"rate" mapstructure:"rate"`
	Pitch          float64       `yaml:"pitch" mapstructure:"pitch"`
	Volume         float64       `yaml:"volume" mapstructure:"volume"`
}

// EspeakConfig contains espeak-ng host settings.
type EspeakConfig struct {
	Binary       string        `yaml:"binary" mapstructure:"binary"`
	DataDir      string        `yaml:"data_dir" mapstructure:"data_dir"`
	DefaultVoice string        `yaml:"default_voice" mapstructure:"default_voice"`
	Playback     string        `yaml:"playback" mapstructure:"playback"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// MockConfig contains dry-run host settings.
type MockConfig struct {
	// Delay before the catalog appears, to exercise late loading
	CatalogDelay time.Duration `yaml:"catalog_delay" mapstructure:"catalog_delay"`
	// Announce the catalog with a voices-changed notification
	Notify bool `yaml:"notify" mapstructure:"notify"`
}

// DeckConfig contains flashcard playback settings.
type DeckConfig struct {
	Path     string        `yaml:"path" mapstructure:"path"`
	Units    []int         `yaml:"units" mapstructure:"units"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	English  bool          `yaml:"english" mapstructure:"english"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host: HostEspeak,
		Speech: SpeechConfig{
			ResolveTimeout: speech.DefaultResolveTimeout,
			PollInterval:   speech.DefaultPollInterval,
			Rate:           speech.DefaultRate,
			Pitch:          speech.DefaultPitch,
			Volume:         speech.DefaultVolume,
		},
		Espeak: DefaultEspeakConfig(),
		Mock: MockConfig{
			CatalogDelay: 300 * time.Millisecond,
			Notify:       true,
		},
		Deck: DeckConfig{
			Interval: 1500 * time.Millisecond,
		},
	}
}

// DefaultEspeakConfig returns default espeak-ng configuration.
func DefaultEspeakConfig() EspeakConfig {
	defaults := espeak.DefaultConfig()
	cfg := EspeakConfig{
		Binary:       defaults.Binary,
		DefaultVoice: defaults.DefaultVoice,
		Playback:     defaults.Playback,
		Timeout:      defaults.Timeout,
	}

	// Common voice directories
	switch runtime.GOOS {
	case "linux":
		cfg.DataDir = filepath.Join("/usr", "share", "espeak-ng-data", "voices")
	case "darwin":
		cfg.DataDir = filepath.Join("/opt", "homebrew", "share", "espeak-ng-data", "voices")
	}

	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validHosts := []string{HostEspeak, HostMock}
	c.Host = strings.ToLower(strings.TrimSpace(c.Host))
	if !slices.Contains(validHosts, c.Host) {
		return fmt.Errorf("%w: %q, must be one of %v", ErrUnknownHost, c.Host, validHosts)
	}

	if err := c.Speech.Validate(); err != nil {
		return fmt.Errorf("speech config: %w", err)
	}

	if c.Host == HostEspeak {
		if err := c.Espeak.Validate(); err != nil {
			return fmt.Errorf("espeak config: %w", err)
		}
	}

	if c.Mock.CatalogDelay < 0 {
		return fmt.Errorf("%w: mock catalog_delay cannot be negative, got %v", ErrInvalidConfig, c.Mock.CatalogDelay)
	}

	if err := c.Deck.Validate(); err != nil {
		return fmt.Errorf("deck config: %w", err)
	}

	return nil
}

// Validate checks speech settings against the ranges hosts accept.
func (c *SpeechConfig) Validate() error {
	if c.ResolveTimeout < 0 {
		return fmt.Errorf("%w: resolve_timeout cannot be negative, got %v", ErrInvalidConfig, c.ResolveTimeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive, got %v", ErrInvalidConfig, c.PollInterval)
	}
	if c.Rate < 0.1 || c.Rate > 10 {
		return fmt.Errorf("%w: rate must be between 0.1 and 10, got %.2f", ErrInvalidConfig, c.Rate)
	}
	if c.Pitch < 0 || c.Pitch > 2 {
		return fmt.Errorf("%w: pitch must be between 0 and 2, got %.2f", ErrInvalidConfig, c.Pitch)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("%w: volume must be between 0 and 1, got %.2f", ErrInvalidConfig, c.Volume)
	}
	return nil
}

// Validate checks if the espeak-ng configuration is valid.
func (c *EspeakConfig) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("%w: espeak binary cannot be empty", ErrInvalidConfig)
	}

	validPlayback := []string{espeak.PlaybackOto, espeak.PlaybackDirect}
	c.Playback = strings.ToLower(c.Playback)
	if !slices.Contains(validPlayback, c.Playback) {
		return fmt.Errorf("%w: playback %q, must be one of %v", ErrInvalidConfig, c.Playback, validPlayback)
	}

	if c.Timeout < time.Second {
		return fmt.Errorf("%w: timeout must be at least 1 second, got %v", ErrInvalidConfig, c.Timeout)
	}
	return nil
}

// Validate checks if the deck configuration is valid.
func (c *DeckConfig) Validate() error {
	for _, u := range c.Units {
		if u < 1 {
			return fmt.Errorf("%w: unit must be at least 1, got %d", ErrInvalidConfig, u)
		}
	}
	if c.Interval < 0 {
		return fmt.Errorf("%w: interval cannot be negative, got %v", ErrInvalidConfig, c.Interval)
	}
	return nil
}

// SequencerConfig converts the speech settings for a speech.Sequencer.
func (c *Config) SequencerConfig() speech.SequencerConfig {
	return speech.SequencerConfig{
		ResolveTimeout: c.Speech.ResolveTimeout,
		PollInterval:   c.Speech.PollInterval,
	}
}

// SpeechOptions returns the configured prosody as sequence options.
func (c *Config) SpeechOptions() speech.Options {
	return speech.Options{
		Rate:   speech.Float(c.Speech.Rate),
		Pitch:  speech.Float(c.Speech.Pitch),
		Volume: speech.Float(c.Speech.Volume),
	}
}

// EspeakHostConfig converts the espeak settings for espeak.New.
func (c *Config) EspeakHostConfig() espeak.Config {
	return espeak.Config{
		Binary:       c.Espeak.Binary,
		DataDir:      c.Espeak.DataDir,
		DefaultVoice: c.Espeak.DefaultVoice,
		Playback:     c.Espeak.Playback,
		Timeout:      c.Espeak.Timeout,
	}
}
