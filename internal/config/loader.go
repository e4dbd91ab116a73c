package config

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// LoadConfigFromViper loads configuration from Viper on top of the defaults
// and the process environment. Config file and flags win over environment.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	e, err := ParseEnv()
	if err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	e.apply(&cfg)

	if viper.IsSet("host") {
		cfg.Host = viper.GetString("host")
	}

	// Speech settings
	if viper.IsSet("speech.resolve_timeout") {
		cfg.Speech.ResolveTimeout = viper.GetDuration("speech.resolve_timeout")
	}
	if viper.IsSet("speech.poll_interval") {
		cfg.Speech.PollInterval = viper.GetDuration("speech.poll_interval")
	}
	if viper.IsSet("speech.rate") {
		cfg.Speech.Rate = viper.GetFloat64("speech.rate")
	}
	if viper.IsSet("speech.pitch") {
		cfg.Speech.Pitch = viper.GetFloat64("speech.pitch")
	}
	if viper.IsSet("speech.volume") {
		cfg.Speech.Volume = viper.GetFloat64("speech.volume")
	}

	cfg.Espeak = loadEspeakConfig(cfg.Espeak)

	// Mock host
	if viper.IsSet("mock.catalog_delay") {
		cfg.Mock.CatalogDelay = viper.GetDuration("mock.catalog_delay")
	}
	if viper.IsSet("mock.notify") {
		cfg.Mock.Notify = viper.GetBool("mock.notify")
	}

	// Deck
	if viper.IsSet("deck.path") {
		cfg.Deck.Path = viper.GetString("deck.path")
	}
	if viper.IsSet("deck.units") {
		cfg.Deck.Units = viper.GetIntSlice("deck.units")
	}
	if viper.IsSet("deck.interval") {
		cfg.Deck.Interval = viper.GetDuration("deck.interval")
	}
	if viper.IsSet("deck.english") {
		cfg.Deck.English = viper.GetBool("deck.english")
	}

	if err := expandPaths(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid cardvoice configuration: %w", err)
	}
	return cfg, nil
}

func loadEspeakConfig(cfg EspeakConfig) EspeakConfig {
	if viper.IsSet("espeak.binary") {
		cfg.Binary = viper.GetString("espeak.binary")
	}
	if viper.IsSet("espeak.data_dir") {
		cfg.DataDir = viper.GetString("espeak.data_dir")
	}
	if viper.IsSet("espeak.default_voice") {
		cfg.DefaultVoice = viper.GetString("espeak.default_voice")
	}
	if viper.IsSet("espeak.playback") {
		cfg.Playback = viper.GetString("espeak.playback")
	}
	if viper.IsSet("espeak.timeout") {
		cfg.Timeout = viper.GetDuration("espeak.timeout")
	}
	return cfg
}

func expandPaths(cfg *Config) error {
	var err error
	if cfg.Espeak.DataDir, err = homedir.Expand(cfg.Espeak.DataDir); err != nil {
		return fmt.Errorf("%w: espeak data_dir: %v", ErrInvalidConfig, err)
	}
	if cfg.Deck.Path, err = homedir.Expand(cfg.Deck.Path); err != nil {
		return fmt.Errorf("%w: deck path: %v", ErrInvalidConfig, err)
	}
	return nil
}
