package config

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Env contains settings read straight from the process environment.
type Env struct {
	// Directory holding espeak-ng-data, as understood by espeak-ng itself
	EspeakDataPath string `env:"ESPEAK_DATA_PATH"`

	// For debugging
	Debug bool `env:"CARDVOICE_DEBUG" envDefault:"false"`
}

// ParseEnv reads Env from the environment.
func ParseEnv() (Env, error) {
	return env.ParseAs[Env]()
}

func (e Env) apply(cfg *Config) {
	if e.EspeakDataPath != "" {
		cfg.Espeak.DataDir = filepath.Join(e.EspeakDataPath, "espeak-ng-data", "voices")
	}
}
