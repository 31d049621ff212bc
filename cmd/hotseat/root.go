package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for hotseat.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotseat",
		Short: "Build tooling for the Hotseat Network exhibit",
		Long: `hotseat generates the static assets of the Hotseat Network exhibit.

Seat 1's dashboard page is the template for every other seat. From it,
hotseat derives the remaining seat pages, encodes QR codes linking to them,
lays the codes out on laser-cut plate sheets (PDF and DXF) and applies
in-place patches to the pages.

Every command that writes files records the run and the SHA-256 of each
file in a local history database, so regenerating from an unchanged
template can be confirmed to be a no-op.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .hotseat.yaml in the working, home or XDG config directory)")
	cmd.PersistentFlags().StringP("dir", "C", ".",
		"Exhibit directory holding seat1.html")
	cmd.PersistentFlags().Bool("no-record", false,
		"Do not record the run in the history database")
	cmd.PersistentFlags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.PersistentFlags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	// Add subcommands
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewPagesCmd())
	cmd.AddCommand(NewQRCmd())
	cmd.AddCommand(NewPlatesCmd())
	cmd.AddCommand(NewPatchCmd())
	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewEstimateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewConfigCmd())
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
