package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/amp-labs/amp-flat/bench"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces the environment variables read into bench.Config.
const envPrefix = "FLATBENCH"

const defaultEnvFile = ".env"

// loadConfig reads the configuration from the environment. An explicit
// envFile must exist; otherwise a .env in the working directory is loaded if
// present. Variables already set in the environment win over the file.
func loadConfig(envFile string) (bench.Config, error) {
	switch {
	case envFile != "":
		if err := godotenv.Load(envFile); err != nil {
			return bench.Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	default:
		if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return bench.Config{}, fmt.Errorf("loading %s: %w", defaultEnvFile, err)
		}
	}

	cfg := bench.DefaultConfig()

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return bench.Config{}, fmt.Errorf("reading %s_* environment: %w", envPrefix, err)
	}

	if err := cfg.Normalize(); err != nil {
		return bench.Config{}, fmt.Errorf("reading %s_* environment: %w", envPrefix, err)
	}

	return cfg, nil
}

// envUsage describes every variable loadConfig understands.
func envUsage() string {
	var (
		cfg bench.Config
		sb  strings.Builder
	)

	if err := envconfig.Usagef(envPrefix, &cfg, &sb, envconfig.DefaultTableFormat); err != nil {
		return ""
	}

	return sb.String()
}
