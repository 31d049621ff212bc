package main

import (
	"github.com/spf13/cobra"

	"github.com/tantoon94/hotseat/internal/config"
	"github.com/tantoon94/hotseat/internal/model"
	"github.com/tantoon94/hotseat/internal/qrgen"
)

// NewQRCmd creates the qr command.
func NewQRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Generate QR codes linking to the seat pages",
		Long: `QR writes seat_<N>_qr.png for every seat, plus codes for the main,
analytics and AR dashboards.

Codes point at the production site unless --local is given, in which case
they point at a local static server for testing on the exhibit network.

Examples:
  # Codes for the production site
  hotseat qr

  # Codes for http://localhost:8000/
  hotseat qr --local

  # Codes for another host, seat pages only
  hotseat qr --base-url https://example.org/hotseat/ --extras=false`,
		Args: cobra.NoArgs,
		RunE: runQRCmd,
	}

	cmd.Flags().BoolP("local", "l", false,
		"Encode the local URL (qr.local_url) instead of the production site")
	cmd.Flags().StringP("base-url", "u", "",
		"Base URL the seat pages are served from (default: qr.base_url)")
	cmd.Flags().StringP("out", "o", "",
		"Output directory (default: qr.output_dir)")
	cmd.Flags().Bool("extras", true,
		"Also generate the main, analytics and AR dashboard codes")
	cmd.Flags().IntP("module-size", "s", 0,
		"Pixels per QR module (default: qr.pixels_per_module)")

	return cmd
}

// runQRCmd executes the qr command.
func runQRCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := applyQRFlags(cmd, a.cfg); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	base := a.cfg.QRBaseURL()
	gen, targets := a.qrGenerator(base)
	a.logger.Info("generating QR codes", "base_url", base, "count", len(targets), "dir", gen.OutputDir())

	run := model.NewRun("qr", a.cfg.Dir)
	artifacts, genErr := gen.Generate(ctx, targets)
	run.AddArtifacts(artifacts...)
	if err := a.finish(ctx, run, genErr); err != nil {
		return err
	}

	for _, t := range targets {
		a.notef("  %-20s %s", t.Description, t.URL)
	}
	return nil
}

// applyQRFlags overrides the QR configuration with flags that were set.
func applyQRFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("local") {
		if cfg.QR.Local, err = flags.GetBool("local"); err != nil {
			return err
		}
	}
	if flags.Changed("base-url") {
		if cfg.QR.BaseURL, err = flags.GetString("base-url"); err != nil {
			return err
		}
	}
	if flags.Changed("out") {
		if cfg.QR.OutputDir, err = flags.GetString("out"); err != nil {
			return err
		}
	}
	if flags.Changed("extras") {
		if cfg.QR.Extras, err = flags.GetBool("extras"); err != nil {
			return err
		}
	}
	if flags.Changed("module-size") {
		if cfg.QR.PixelsPerModule, err = flags.GetInt("module-size"); err != nil {
			return err
		}
	}
	return nil
}

// qrGenerator returns the configured generator and the targets for base.
func (a *app) qrGenerator(base string) (*qrgen.Generator, []qrgen.Target) {
	gen := qrgen.NewGenerator(a.cfg.Path(a.cfg.QR.OutputDir),
		qrgen.WithPixelsPerModule(a.cfg.QR.PixelsPerModule),
		qrgen.WithConcurrency(a.cfg.QR.Concurrency),
		qrgen.WithLogger(a.logger),
	)

	targets := qrgen.SeatTargets(base, a.cfg.Seats)
	if a.cfg.QR.Extras {
		targets = append(targets, qrgen.ExtraTargets(base)...)
	}
	return gen, targets
}
