package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/nao1215/csvhash/internal/digest"
	"github.com/nao1215/csvhash/internal/table"
)

// Default configuration values.
const (
	// DefaultAlgorithm is the digest algorithm used when none is given.
	// SHA-224 keeps identifiers shorter than SHA-256 while staying in the
	// SHA-2 family most data-sharing agreements name.
	DefaultAlgorithm = digest.DefaultAlgorithm

	// DefaultSaltEnv is the environment variable the salt is read from.
	// The salt is a secret, so it is never accepted as a plain flag value
	// that would end up in shell history.
	DefaultSaltEnv = "CSVHASH_SALT"

	// DefaultDelimiter separates fields in input and output files.
	DefaultDelimiter = ","

	// DefaultEncoding is the input encoding label.
	DefaultEncoding = "utf-8"

	// DefaultHistoryLimit is how many runs `csvhash history` lists.
	DefaultHistoryLimit = 20

	// AppName is the application name used for XDG directory paths.
	AppName = "csvhash"
)

// Report formats for the run summary.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Config holds all options for one hashing run.
// It is populated from CLI flags, the optional config file and the
// environment, then passed through the application explicitly.
type Config struct {
	// InputPath is the delimited file to read.
	InputPath string

	// OutputPath is where the annotated file is written.
	OutputPath string

	// Column is the name of the column to hash. It must match a sanitized
	// header name exactly.
	Column string

	// Algorithm is the digest algorithm name (see digest.Algorithms).
	Algorithm string

	// TruncateLength is the number of leading digest characters kept in the
	// <column>_hash_truncated column. Zero disables truncation and
	// collision detection.
	TruncateLength int

	// Salt is prepended to every value before hashing. Empty means unsalted.
	Salt string

	// SaltEnv names the environment variable Salt was read from.
	SaltEnv string

	// SaltEnvExplicit is true when a flag or the config file named a salt
	// variable other than DefaultSaltEnv.
	SaltEnvExplicit bool

	// saltEnvUnset records that ResolveSalt found SaltEnv unset.
	saltEnvUnset bool

	// EnvFile is an optional .env file loaded before SaltEnv is read.
	EnvFile string

	// Delimiter is the single-character field separator.
	Delimiter string

	// Encoding is the input encoding label (utf-8, latin1, windows-1252, ...).
	Encoding string

	// Concurrency bounds the number of goroutines computing digests.
	Concurrency int

	// ReportFormat selects the summary format: text, json or markdown.
	ReportFormat string

	// ReportFile is an optional path for the summary; stdout when empty.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, .csvhash is searched in the current directory, the home
	// directory and the XDG config directory.
	ConfigFilePath string

	// Schema is the optional presentation transform applied before writing.
	Schema *OutputSchema

	// SaveHistory records the run in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	DBDir string

	// SkipResidualScan disables the scan for identifiers left in the
	// output columns.
	SkipResidualScan bool

	// Strict aborts the run, before anything is written, when the residual
	// scan finds identifiers of medium severity or higher.
	Strict bool

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Algorithm:    DefaultAlgorithm,
		SaltEnv:      DefaultSaltEnv,
		Delimiter:    DefaultDelimiter,
		Encoding:     DefaultEncoding,
		Concurrency:  runtime.NumCPU(),
		ReportFormat: FormatText,
		SaveHistory:  true,
		DBDir:        XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for csvhash.
// On Linux: ~/.local/share/csvhash
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for csvhash.
// On Linux: ~/.config/csvhash
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DelimiterRune returns the delimiter as a rune. Validate guarantees it is
// a single character.
func (c *Config) DelimiterRune() rune {
	r := []rune(c.Delimiter)
	if len(r) != 1 {
		return ','
	}
	return r[0]
}

// MissingSaltEnv reports whether an explicitly named salt variable was not
// set when ResolveSalt ran. The run then proceeds unsalted, which is usually
// a typo in the variable name.
func (c *Config) MissingSaltEnv() bool {
	return c.SaltEnvExplicit && c.saltEnvUnset
}

// TruncationEnabled reports whether a truncation length is configured.
func (c *Config) TruncationEnabled() bool {
	return c.TruncateLength > 0
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error (possibly wrapped).
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return ErrNoInput
	}
	if c.OutputPath == "" {
		return ErrNoOutput
	}
	if c.Column == "" {
		return ErrNoColumn
	}

	// Overwriting the input would destroy the source on success and leave
	// nothing to compare against.
	if table.SamePath(c.InputPath, c.OutputPath) {
		return ErrSameInputOutput
	}
	// The clash log is renamed into place too, so it must not land on the
	// input either.
	if clashLog := table.ClashLogPath(c.OutputPath); table.SamePath(c.InputPath, clashLog) {
		return fmt.Errorf("%w: clash log %s is the input file", ErrSameInputOutput, clashLog)
	}
	if c.ReportFile != "" && (table.SamePath(c.ReportFile, c.InputPath) || table.SamePath(c.ReportFile, c.OutputPath)) {
		return fmt.Errorf("%w: report file %s", ErrSameInputOutput, c.ReportFile)
	}

	if !digest.Supported(c.Algorithm) {
		return fmt.Errorf("%w: %q (supported: %s)",
			digest.ErrUnsupportedAlgorithm, c.Algorithm, strings.Join(digest.Algorithms(), ", "))
	}

	if c.TruncateLength < 0 {
		return ErrInvalidTruncateLength
	}

	if len([]rune(c.Delimiter)) != 1 || c.Delimiter == "\n" || c.Delimiter == "\r" || c.Delimiter == "\"" {
		return ErrInvalidDelimiter
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	switch c.ReportFormat {
	case FormatText, FormatJSON, FormatMarkdown:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedReportFormat, c.ReportFormat)
	}

	if c.Schema != nil {
		if err := c.Schema.Validate(); err != nil {
			return err
		}
	}

	return nil
}
