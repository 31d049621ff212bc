package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/tantoon94/hotseat/internal/model"
	"github.com/tantoon94/hotseat/internal/seatpage"
)

// NewPagesCmd creates the pages command.
func NewPagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages [seat...]",
		Short: "Generate seat pages from the seat 1 template",
		Long: `Pages derives seat<N>.html from seat1.html for every seat except seat 1.

Element ids, labels and seat comparisons that refer to seat 1 are rewritten
for the target seat. After writing, each page is parsed and any element id
that still refers to seat 1 is reported as a warning.

Examples:
  # Generate seat2.html .. seat5.html
  hotseat pages

  # Generate only seats 3 and 4
  hotseat pages 3 4

  # Regenerate whenever seat1.html is saved
  hotseat pages --watch`,
		RunE: runPagesCmd,
	}

	cmd.Flags().StringP("template", "t", "",
		"Template page (default: pages.template from the configuration)")
	cmd.Flags().StringP("out", "o", "",
		"Output directory (default: the exhibit directory)")
	cmd.Flags().BoolP("watch", "w", false,
		"Regenerate when the template changes, until interrupted")
	cmd.Flags().Duration("debounce", 0,
		"Quiet period before regenerating in watch mode (default: pages.watch_debounce)")

	return cmd
}

// runPagesCmd executes the pages command.
func runPagesCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	seats, err := parseSeats(args)
	if err != nil {
		return err
	}
	if len(seats) == 0 {
		seats = derivedSeats(a.cfg)
	}
	if len(seats) == 0 {
		return errors.New("no seats to generate: only the template seat is configured")
	}
	a.warnUnconfiguredSeats(seats)

	template, err := cmd.Flags().GetString("template")
	if err != nil {
		return err
	}
	if template == "" {
		template = a.cfg.Pages.Template
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = a.cfg.Dir
	} else {
		outDir = a.cfg.Path(outDir)
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = a.cfg.Pages.WatchDebounce
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	gen := seatpage.NewGenerator(a.cfg.Path(template), outDir, seatpage.WithLogger(a.logger))

	run := model.NewRun("pages", a.cfg.Dir)
	res, genErr := gen.Generate(ctx, seats)
	addPagesResult(run, res)
	if err := a.finish(ctx, run, genErr); err != nil {
		return err
	}
	a.notef("Preview at %s%s", model.NormalizeBaseURL(a.cfg.Pages.PreviewURL), model.SeatPageName(seats[0]))

	if !watch {
		return nil
	}

	a.notef("Watching %s (Ctrl+C to stop)", gen.Template())
	return gen.Watch(ctx, seats, debounce, func(res *seatpage.Result, err error) {
		run := model.NewRun("pages", a.cfg.Dir)
		addPagesResult(run, res)
		if err := a.finish(ctx, run, err); err != nil {
			a.logger.Error("regeneration failed", "error", err)
			return
		}
		a.notef("Regenerated %d page(s) at %s", len(res.Artifacts), time.Now().Format(time.TimeOnly))
	})
}

func addPagesResult(run *model.Run, res *seatpage.Result) {
	if res == nil {
		return
	}
	run.AddArtifacts(res.Artifacts...)
	for _, w := range res.Warnings {
		run.Warn(w)
	}
}

// warnUnconfiguredSeats logs seats beyond the configured count, which
// have no QR code or plate.
func (a *app) warnUnconfiguredSeats(seats []int) {
	for _, s := range seats {
		if s > a.cfg.Seats {
			a.logger.Warn("seat is beyond the configured seat count", "seat", s, "seats", a.cfg.Seats)
		}
	}
}
