// internal/config/loader.go
//
// Startup configuration loading.
//   1. .env in the working directory is merged into the process environment
//      (variables already set are left alone).
//   2. CONFIG_PATH names a YAML file; without it ./config.yaml is tried.
//   3. Environment variables override YAML; env-default tags fill the rest.
//
// An explicit CONFIG_PATH that does not exist is an error. A missing
// ./config.yaml is not.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigFile = "./config.yaml"

// Load builds and validates the process configuration.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := readConfig(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// readConfig fills cfg from the YAML file (if any) and the environment.
func readConfig(cfg *Config) error {
	path := getEnv("CONFIG_PATH", defaultConfigFile)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return nil
	case path != defaultConfigFile || !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("config: file %s: %w", path, err)
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("config: read env: %w", err)
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
