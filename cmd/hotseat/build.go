package main

import (
	"github.com/spf13/cobra"

	"github.com/tantoon94/hotseat/internal/model"
	"github.com/tantoon94/hotseat/internal/patch"
	"github.com/tantoon94/hotseat/internal/pipeline"
	"github.com/tantoon94/hotseat/internal/seatpage"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run pages, qr, plates and the duration patch in order",
		Long: `Build regenerates every exhibit asset in one run:

  1. pages            seat2.html .. seat<N>.html from seat1.html
  2. qr               QR codes for every seat and dashboard
  3. pdf              the printable plate sheet
  4. dxf              the laser cut sheet
  5. patch durations  HH:MM:SS session durations on the generated pages

Each step reads what the previous ones wrote. By default the build stops
at the first failing step.

Examples:
  hotseat build
  hotseat build --local --continue-on-error
  hotseat build --skip-patch --json`,
		Args: cobra.NoArgs,
		RunE: runBuildCmd,
	}

	cmd.Flags().BoolP("local", "l", false,
		"Encode the local URL (qr.local_url) instead of the production site")
	cmd.Flags().BoolP("continue-on-error", "k", false,
		"Run the remaining steps after a step fails")
	cmd.Flags().Bool("skip-patch", false,
		"Do not apply the duration patch")

	return cmd
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("local") {
		if a.cfg.QR.Local, err = flags.GetBool("local"); err != nil {
			return err
		}
	}
	continueOnError, err := flags.GetBool("continue-on-error")
	if err != nil {
		return err
	}
	skipPatch, err := flags.GetBool("skip-patch")
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	p := pipeline.New(
		pipeline.WithLogger(a.logger),
		pipeline.WithContinueOnError(continueOnError),
	)

	pages := seatpage.NewGenerator(a.cfg.Path(a.cfg.Pages.Template), a.cfg.Dir, seatpage.WithLogger(a.logger))
	if seats := derivedSeats(a.cfg); len(seats) > 0 {
		p.AddStep(pipeline.NewPagesStep(pages, seats))
	}

	qr, targets := a.qrGenerator(a.cfg.QRBaseURL())
	opts := a.plateOptions()
	seats := a.cfg.SeatNumbers()
	p.AddSteps(
		pipeline.NewQRStep(qr, targets),
		pipeline.NewPlateStep(pipeline.FormatPDF, a.cfg.Path(a.cfg.Plates.PDFFile), seats, opts),
		pipeline.NewPlateStep(pipeline.FormatDXF, a.cfg.Path(a.cfg.Plates.DXFFile), seats, opts),
	)
	if !skipPatch {
		durations := patch.DurationSet()
		p.AddStep(pipeline.NewPatchStep(durations, patchTargets(a.cfg, durations), a.logger))
	}

	a.logger.Info("starting build", "steps", p.StepNames(), "dir", a.cfg.Dir)

	run := model.NewRun("build", a.cfg.Dir)
	return a.finish(ctx, run, p.Execute(ctx, run))
}
