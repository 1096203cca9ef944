package main

import (
	"fmt"

	"github.com/nao1215/csvhash/internal/digest"
	"github.com/spf13/cobra"
)

// NewAlgorithmsCmd creates the algorithms command.
func NewAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported digest algorithms",
		Long: `List the digest algorithms accepted by 'csvhash hash --algorithm'
together with the length of their hex digests.

Names are case-insensitive and '-' may be used instead of '_', so
SHA-256, sha_256 and sha256 all select the same algorithm.`,
		Args: cobra.NoArgs,
		RunE: runAlgorithmsCmd,
	}
}

// runAlgorithmsCmd executes the algorithms command.
func runAlgorithmsCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, name := range digest.Algorithms() {
		newHash, err := digest.Lookup(name)
		if err != nil {
			return err
		}

		marker := ""
		if name == digest.DefaultAlgorithm {
			marker = " (default)"
		}
		fmt.Fprintf(out, "%-12s %3d hex characters%s\n", name, newHash().Size()*2, marker)
	}
	return nil
}
