package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".csvhash"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Defaults holds run options that may be preset in the config file.
// Zero values mean "not set".
type Defaults struct {
	Algorithm      string `yaml:"algorithm,omitempty"`
	TruncateLength int    `yaml:"truncate_length,omitempty"`
	SaltEnv        string `yaml:"salt_env,omitempty"`
	EnvFile        string `yaml:"env_file,omitempty"`
	Encoding       string `yaml:"encoding,omitempty"`
	Delimiter      string `yaml:"delimiter,omitempty"`
	Concurrency    int    `yaml:"concurrency,omitempty"`
	ReportFormat   string `yaml:"report_format,omitempty"`

	SkipResidualScan bool `yaml:"skip_residual_scan,omitempty"`
	Strict           bool `yaml:"strict,omitempty"`
}

// File represents the structure of the .csvhash configuration file.
type File struct {
	// Defaults are applied before command line flags.
	Defaults Defaults `yaml:"defaults,omitempty"`

	// Schema is the optional output schema.
	Schema *OutputSchema `yaml:"schema,omitempty"`
}

// Apply copies every value set in the file onto cfg.
// Callers apply explicitly given flags afterwards so flags win.
func (cf *File) Apply(cfg *Config) {
	d := cf.Defaults
	if d.Algorithm != "" {
		cfg.Algorithm = d.Algorithm
	}
	if d.TruncateLength != 0 {
		cfg.TruncateLength = d.TruncateLength
	}
	if d.SaltEnv != "" {
		cfg.SaltEnv = d.SaltEnv
		cfg.SaltEnvExplicit = d.SaltEnv != DefaultSaltEnv
	}
	if d.EnvFile != "" {
		cfg.EnvFile = d.EnvFile
	}
	if d.Encoding != "" {
		cfg.Encoding = d.Encoding
	}
	if d.Delimiter != "" {
		cfg.Delimiter = d.Delimiter
	}
	if d.Concurrency != 0 {
		cfg.Concurrency = d.Concurrency
	}
	if d.ReportFormat != "" {
		cfg.ReportFormat = d.ReportFormat
	}
	if d.SkipResidualScan {
		cfg.SkipResidualScan = true
	}
	if d.Strict {
		cfg.Strict = true
	}
	if !cf.Schema.IsZero() {
		cfg.Schema = cf.Schema
	}
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if err := cf.Schema.Validate(); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .csvhash in the current directory
// 3. Look for .csvhash in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
