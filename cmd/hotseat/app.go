package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tantoon94/hotseat/internal/config"
	"github.com/tantoon94/hotseat/internal/database"
	"github.com/tantoon94/hotseat/internal/layout"
	internallog "github.com/tantoon94/hotseat/internal/log"
	"github.com/tantoon94/hotseat/internal/model"
	"github.com/tantoon94/hotseat/internal/patch"
	"github.com/tantoon94/hotseat/internal/plate"
	"github.com/tantoon94/hotseat/internal/report"
	"github.com/tantoon94/hotseat/internal/seatpage"
)

// app carries what every command needs once flags and configuration have
// been resolved.
type app struct {
	cfg    *config.Config
	logger *slog.Logger

	// out receives reports; notes go to errOut so stdout stays parseable.
	out    io.Writer
	errOut io.Writer
}

// newApp loads the configuration for cmd and applies the global flags.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	a := &app{
		cfg:    cfg,
		logger: internallog.NewLogger(cmd.ErrOrStderr(), cfg.Verbose),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
	if cfg.ConfigFilePath != "" {
		a.logger.Debug("configuration loaded", "path", cfg.ConfigFilePath)
	}
	return a, nil
}

// buildConfig creates a Config from the config file, the environment and
// the global flags, in increasing order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	dir, err := flags.GetString("dir")
	if err != nil {
		return nil, err
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path must exist; otherwise a missing file means defaults.
	if configPath == "" {
		configPath = config.FindConfigFile(dir, "")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if flags.Changed("dir") || cfg.Dir == "" {
		cfg.Dir = dir
	}

	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}

	noRecord, err := flags.GetBool("no-record")
	if err != nil {
		return nil, err
	}
	if noRecord {
		cfg.History.Enabled = false
	}

	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// writer returns the report writer selected by --json or --markdown.
func (a *app) writer() report.Writer {
	switch {
	case a.cfg.JSONReport:
		return report.NewJSONWriter(a.out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case a.cfg.MarkdownReport:
		return report.NewMarkdownWriter(a.out)
	default:
		return report.NewSimpleWriter(a.out, report.WithVerbose(a.cfg.Verbose))
	}
}

// notef prints a hint for humans. It is suppressed for machine-readable
// output formats.
func (a *app) notef(format string, args ...any) {
	if a.cfg.JSONReport || a.cfg.MarkdownReport {
		return
	}
	fmt.Fprintf(a.errOut, format+"\n", args...)
}

// openHistory opens the history database.
func (a *app) openHistory() (*database.HistoryDB, error) {
	db, err := database.Open(a.cfg.History.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

// finish completes run with runErr, records it in the history database
// and writes the report. It returns runErr, or the report error when the
// run itself succeeded.
func (a *app) finish(ctx context.Context, run *model.Run, runErr error) error {
	if runErr != nil && !run.Failed() {
		run.Fail(runErr)
	}
	run.Finish()

	if a.cfg.History.Enabled {
		// Record interrupted runs too.
		if err := a.record(context.WithoutCancel(ctx), run); err != nil {
			a.logger.Warn("failed to record run", "run", run.ID, "error", err)
		}
	}

	if _, err := a.writer().WriteRun(run); err != nil && runErr == nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return runErr
}

func (a *app) record(ctx context.Context, run *model.Run) error {
	db, err := a.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RecordRun(ctx, run); err != nil {
		return err
	}
	a.logger.Debug("run recorded", "run", run.ID, "db", db.Path())
	return nil
}

// layoutSpec converts the plate configuration to layout geometry.
func (a *app) layoutSpec() layout.Spec {
	p := a.cfg.Plates
	return layout.Spec{
		PageWidth:  p.PageWidth,
		PageHeight: p.PageHeight,
		PlateSize:  p.PlateSize,
		Margin:     p.Margin,
		Spacing:    p.Spacing,
		QRMargin:   p.QRMargin,
		TitleBand:  p.TitleBand,
	}
}

// plateOptions returns the options both plate writers are called with.
func (a *app) plateOptions() plate.Options {
	return plate.Options{
		Spec:      a.layoutSpec(),
		QRDir:     a.cfg.Path(a.cfg.QR.OutputDir),
		ImageDPI:  a.cfg.Plates.ImageDPI,
		Material:  a.cfg.Plates.Material,
		Timestamp: sourceDateEpoch(),
		Logger:    a.logger,
	}
}

// sourceDateEpoch returns the time in SOURCE_DATE_EPOCH, or zero when it is
// unset or invalid.
func sourceDateEpoch() time.Time {
	s := os.Getenv("SOURCE_DATE_EPOCH")
	if s == "" {
		return time.Time{}
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// parseSeats converts positional seat arguments to numbers.
func parseSeats(args []string) ([]int, error) {
	seats := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid seat %q: must be a positive number", arg)
		}
		seats = append(seats, n)
	}
	return seats, nil
}

// derivedSeats returns seats 2..cfg.Seats, the pages derived from the template.
func derivedSeats(cfg *config.Config) []int {
	seats := make([]int, 0, cfg.Seats)
	for _, n := range cfg.SeatNumbers() {
		if n != seatpage.TemplateSeat {
			seats = append(seats, n)
		}
	}
	return seats
}

// patchTargets returns the seat pages set is applied to by default:
// 1..cfg.Seats, or only the derived pages when set.DerivedOnly.
func patchTargets(cfg *config.Config, set patch.Set) []string {
	seats := cfg.SeatNumbers()
	if set.DerivedOnly {
		seats = derivedSeats(cfg)
	}
	paths := make([]string, len(seats))
	for i, n := range seats {
		paths[i] = cfg.Path(model.SeatPageName(n))
	}
	return paths
}
