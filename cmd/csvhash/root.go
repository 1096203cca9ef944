package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for csvhash.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csvhash",
		Short: "Pseudonymize a column of a CSV file with cryptographic digests",
		Long: `csvhash replaces the identifiers in one column of a delimited file with
cryptographic digests so the data can be shared without the identifiers.

Each value gets a full digest column and, when a truncation length is
given, a short truncated digest column. Truncated digests that clash are
reported and written to a clash log next to the output file.

A secret salt is read from the environment (CSVHASH_SALT by default) so
it never appears on the command line.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewHashCmd())
	cmd.AddCommand(NewAlgorithmsCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
