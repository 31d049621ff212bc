package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tantoon94/hotseat/internal/config"
)

//go:embed templates/hotseat.yaml
var configTemplate embed.FS

// configTemplatePath is the template's path inside configTemplate.
const configTemplatePath = "templates/hotseat.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new hotseat configuration file",
		Long: `Initialize creates a new .hotseat.yaml configuration file in the
exhibit directory.

The generated file lists every option with its default value and a short
explanation.

Examples:
  # Create .hotseat.yaml in the current directory
  hotseat init

  # Create .hotseat.yaml in another exhibit directory
  hotseat -C ../exhibit init

  # Create a config file at a specific path
  hotseat init -o myconfig.yaml

  # Force overwrite existing file
  hotseat init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration, relative to the exhibit directory")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command. It does not load any existing
// configuration, so a broken file can be replaced with -f.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(dir, outputPath)
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(configTemplatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if parent := filepath.Dir(outputPath); parent != "" && parent != "." {
		if err := os.MkdirAll(parent, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to change, for example:")
	fmt.Fprintln(out, "  - the number of seats")
	fmt.Fprintln(out, "  - the site the QR codes point at")
	fmt.Fprintln(out, "  - the plate size and material")

	return nil
}
