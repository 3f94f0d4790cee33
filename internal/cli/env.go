package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envDefaults holds flag defaults that can be set from the environment.
// Explicit flags always win.
type envDefaults struct {
	ConfigPaths []string `env:"FRAGMENTS_CONFIG" envSeparator:","`
	Root        string   `env:"FRAGMENTS_ROOT"`
	Output      string   `env:"FRAGMENTS_OUTPUT"`
	Port        int      `env:"FRAGMENTS_PORT" envDefault:"0"`
	LogFormat   string   `env:"FRAGMENTS_LOG_FORMAT" envDefault:"text"`
	LogLevel    string   `env:"FRAGMENTS_LOG_LEVEL" envDefault:"info"`
}

func parseEnv() (envDefaults, error) {
	var d envDefaults
	if err := env.Parse(&d); err != nil {
		return envDefaults{}, fmt.Errorf("parse env: %w", err)
	}
	return d, nil
}
