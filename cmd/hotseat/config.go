package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Config prints the configuration hotseat would run with, after layering
the configuration file, HOTSEAT_ environment variables and global flags
over the defaults. The output is valid YAML and can be saved as
.hotseat.yaml.

Environment variables use a double underscore between nested keys:
  HOTSEAT_SEATS=6
  HOTSEAT_QR__BASE_URL=https://example.org/hotseat/`,
		Args: cobra.NoArgs,
		RunE: runConfigCmd,
	}
}

// runConfigCmd executes the config command.
func runConfigCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	source := "defaults"
	if a.cfg.ConfigFilePath != "" {
		source = a.cfg.ConfigFilePath
	}
	fmt.Fprintf(a.out, "# source: %s\n", source)
	_, err = a.out.Write(data)
	return err
}
