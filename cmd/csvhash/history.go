package main

import (
	"fmt"

	"github.com/nao1215/csvhash/internal/config"
	"github.com/nao1215/csvhash/internal/database"
	"github.com/nao1215/csvhash/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
// This command shows past runs stored in the history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous runs",
		Long: `History lists the runs recorded by 'csvhash hash', newest first.

Each record holds the run parameters and collision statistics. Source
values and salts are never recorded, so the history can be kept as an
audit trail of how a data release was pseudonymized.

Examples:
  # List the 20 most recent runs
  csvhash history

  # Show one run with its collision groups
  csvhash history --id 0b6f0c2e-...

  # Export the whole history as JSON
  csvhash history --limit 0 -f json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().StringP("id", "i", "",
		"Show a single run with its collision groups")
	cmd.Flags().StringP("format", "f", config.FormatText,
		"Output format: text, json or markdown")
	cmd.Flags().String("history-dir", config.XDGDataDir(),
		"Directory holding the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	id, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	dir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return err
	}

	// Validate the format before touching the database
	w, err := report.New(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	db, err := database.Open(dir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		if isNotExist(err) {
			if id != "" {
				return fmt.Errorf("run %q not found", id)
			}
			_, err = w.WriteHistory(nil)
			return err
		}
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	if id != "" {
		summary, err := db.GetRun(ctx, id)
		if err != nil {
			return err
		}
		if summary == nil {
			return fmt.Errorf("run %q not found", id)
		}
		_, err = w.Write(summary)
		return err
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	_, err = w.WriteHistory(runs)
	return err
}
