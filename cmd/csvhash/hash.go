package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/csvhash/internal/config"
	"github.com/nao1215/csvhash/internal/database"
	"github.com/nao1215/csvhash/internal/digest"
	"github.com/nao1215/csvhash/internal/log"
	"github.com/nao1215/csvhash/internal/model"
	"github.com/nao1215/csvhash/internal/pipeline"
	"github.com/nao1215/csvhash/internal/report"
	"github.com/nao1215/csvhash/internal/table"
	"github.com/spf13/cobra"
)

// NewHashCmd creates the hash command.
func NewHashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash <input> <output> <column>",
		Short: "Hash one column of a CSV file",
		Long: `Hash reads a delimited file, computes a digest of every value in the
given column and writes the file back out with two extra columns:

  <column>_hash_full       the full hex digest
  <column>_hash_truncated  the first N characters (only with --truncate N)

With --truncate, rows whose truncated digests are equal are reported as
clashes and written to <output>_clash_log<ext>.

Header names are cleaned before lookup: byte-order marks are removed and
only letters, digits, space and . , - / _ are kept. The column name must
match a cleaned header exactly.

The salt is read from the environment variable named by --salt-env
(CSVHASH_SALT by default), optionally loaded from a .env file.

Before writing, every non-digest output column is scanned for values that
still look like personal identifiers (e-mail addresses, phone numbers,
IBANs, card numbers, IP and cryptocurrency addresses). Findings are
reported as warnings; with --strict, a finding of medium severity or
higher aborts the run and nothing is written.

Examples:
  # Hash the Email column with the default algorithm (sha224)
  csvhash hash people.csv people_hashed.csv Email

  # 8-character identifiers from salted SHA-256 digests
  CSVHASH_SALT=secret csvhash hash -a sha256 -t 8 people.csv out.csv Email

  # Semicolon separated Latin-1 input, JSON summary
  csvhash hash -d ';' -e latin1 -f json export.csv out.csv "Customer ID"

  # Refuse to write the file if raw identifiers remain
  csvhash hash --strict -c release.yaml people.csv out.csv Email`,
		Args: cobra.ExactArgs(3),
		RunE: runHashCmd,
	}

	// Digest flags
	cmd.Flags().StringP("algorithm", "a", config.DefaultAlgorithm,
		"Digest algorithm (see 'csvhash algorithms')")
	cmd.Flags().IntP("truncate", "t", 0,
		"Keep this many leading digest characters and check them for clashes (0 disables)")
	cmd.Flags().String("salt-env", config.DefaultSaltEnv,
		"Environment variable holding the salt")
	cmd.Flags().String("env-file", "",
		"Load environment variables from this .env file first")

	// Input format flags
	cmd.Flags().StringP("encoding", "e", config.DefaultEncoding,
		"Input encoding (utf-8, latin1, windows-1252, shift_jis, ...)")
	cmd.Flags().StringP("delimiter", "d", config.DefaultDelimiter,
		"Field delimiter")

	// Execution flags
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .csvhash in current or home directory)")
	cmd.Flags().IntP("concurrency", "j", 0,
		"Number of goroutines computing digests (default: number of CPUs)")

	// Residual scan flags
	cmd.Flags().Bool("strict", false,
		"Abort when output columns still contain personal identifiers")
	cmd.Flags().Bool("skip-residual-scan", false,
		"Do not scan output columns for personal identifiers")

	// Report flags
	cmd.Flags().StringP("format", "f", config.FormatText,
		"Summary format: text, json or markdown")
	cmd.Flags().StringP("report", "o", "",
		"Write the summary to this file instead of stdout")
	cmd.Flags().Bool("log-json", false,
		"Write logs as JSON")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
	cmd.Flags().String("history-dir", config.XDGDataDir(),
		"Directory holding the history database")

	return cmd
}

// runHashCmd executes the hash command.
func runHashCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := config.ResolveSalt(cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return err
	}
	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, logJSON)
	slog.SetDefault(logger)

	if cfg.MissingSaltEnv() {
		logger.Warn("salt variable is not set, digests are unsalted", "variable", cfg.SaltEnv)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runHash(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the config file and cobra flags.
// Values from the config file are applied first; flags the user actually
// set override them.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.InputPath = args[0]
	cfg.OutputPath = args[1]
	cfg.Column = args[2]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if not found.
	// Otherwise silently continue without one.
	if configPath := config.FindConfigFile(cfg.ConfigFilePath); configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	flags := cmd.Flags()
	stringFlags := map[string]*string{
		"algorithm":   &cfg.Algorithm,
		"salt-env":    &cfg.SaltEnv,
		"env-file":    &cfg.EnvFile,
		"encoding":    &cfg.Encoding,
		"delimiter":   &cfg.Delimiter,
		"format":      &cfg.ReportFormat,
		"history-dir": &cfg.DBDir,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}
	if flags.Changed("salt-env") {
		cfg.SaltEnvExplicit = cfg.SaltEnv != config.DefaultSaltEnv
	}

	if flags.Changed("truncate") {
		if cfg.TruncateLength, err = flags.GetInt("truncate"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}

	boolFlags := map[string]*bool{
		"strict":             &cfg.Strict,
		"skip-residual-scan": &cfg.SkipResidualScan,
	}
	for name, dst := range boolFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetBool(name); err != nil {
			return nil, err
		}
	}

	cfg.ReportFile, err = flags.GetString("report")
	if err != nil {
		return nil, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory

	return cfg, nil
}

// setupLogger creates a structured logger that masks salts and identifiers.
func setupLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	if jsonFormat {
		return log.NewSecureJSONLogger(w, verbose)
	}
	return log.NewSecureLogger(w, verbose)
}

// runHash executes one run, records it and writes the summary.
// The run is recorded in the history even when it fails.
func runHash(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	p, err := pipeline.DefaultPipeline(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("starting run",
		"input", cfg.InputPath,
		"output", cfg.OutputPath,
		"column", cfg.Column,
		"algorithm", digest.CanonicalName(cfg.Algorithm),
		"truncate_length", cfg.TruncateLength,
		"keyed", cfg.Salt != "",
	)

	run := pipeline.NewRun(cfg)
	runErr := p.Execute(ctx, run)
	summary := model.NewSummary(run)

	if cfg.SaveHistory {
		// The run is recorded even if ctx was cancelled.
		if err := saveHistory(context.WithoutCancel(ctx), cfg.DBDir, summary, logger); err != nil {
			logger.Error("failed to record run", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	return outputSummary(cfg, summary, stdout)
}

// saveHistory records the summary in the history database.
func saveHistory(ctx context.Context, dir string, summary *model.Summary, logger *slog.Logger) error {
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(ctx, summary); err != nil {
		return err
	}

	logger.Debug("run recorded", "run", summary.RunID, "db", db.Path())
	return nil
}

// outputSummary writes the summary in the configured format to the report
// file, or to stdout when no report file is set.
func outputSummary(cfg *config.Config, summary *model.Summary, stdout io.Writer) error {
	if cfg.ReportFile == "" {
		w, err := report.New(cfg.ReportFormat, stdout)
		if err != nil {
			return err
		}
		_, err = w.Write(summary)
		return err
	}

	return table.WriteFileAtomic(cfg.ReportFile, func(out io.Writer) error {
		w, err := report.New(cfg.ReportFormat, out)
		if err != nil {
			return err
		}
		_, err = w.Write(summary)
		return err
	})
}

// writeFile writes data to path atomically with owner-only permissions.
func writeFile(path string, data []byte) error {
	return table.WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// isNotExist reports whether err means a file is missing.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
