package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file into the process environment.
// Variables already set in the environment are not overridden. An empty
// path is a no-op; a path that does not exist is an error because it was
// asked for explicitly.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ResolveSalt loads cfg.EnvFile, then sets cfg.Salt from the variable named
// by cfg.SaltEnv. An unset variable leaves the run unsalted; callers check
// cfg.MissingSaltEnv to warn about it.
func ResolveSalt(cfg *Config) error {
	if err := LoadEnv(cfg.EnvFile); err != nil {
		return err
	}
	if cfg.SaltEnv == "" {
		return nil
	}
	salt, ok := os.LookupEnv(cfg.SaltEnv)
	cfg.Salt = salt
	cfg.saltEnvUnset = !ok
	return nil
}
