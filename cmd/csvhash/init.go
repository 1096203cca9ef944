package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/nao1215/csvhash/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/csvhash.yaml
var configTemplate embed.FS

// configTemplateName is the embedded template path.
const configTemplateName = "templates/csvhash.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new csvhash configuration file",
		Long: `Initialize creates a new .csvhash configuration file in the current directory.

The generated file includes:
- Default settings for algorithm, truncation and input format
- The environment variable the salt is read from
- A commented output schema example

Examples:
  # Create .csvhash in current directory
  csvhash init

  # Create config file at a specific path
  csvhash init -o myconfig.yaml

  # Force overwrite existing file
  csvhash init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(configTemplateName)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if err := writeFile(outputPath, content); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set defaults such as:")
	fmt.Fprintln(out, "  - Digest algorithm and truncation length")
	fmt.Fprintln(out, "  - The environment variable holding the salt")
	fmt.Fprintln(out, "  - An output schema that drops the raw identifiers")

	return nil
}
