package main

import (
	"github.com/spf13/cobra"

	"github.com/tantoon94/hotseat/internal/estimate"
)

// NewEstimateCmd creates the estimate command.
func NewEstimateCmd() *cobra.Command {
	defaults := estimate.DefaultParams()

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the Firestore storage used by the exhibit",
		Long: `Estimate projects the Firestore storage of the seat data: one year of
daily counts, the capped session history and the current sessions, for
the current retention and for an optimized one, and compares both with
the 1GB free tier.

The seat count defaults to the configured number of seats.

Examples:
  hotseat estimate
  hotseat estimate --history-limit 100 --years 10
  hotseat estimate --markdown > storage.md`,
		Args: cobra.NoArgs,
		RunE: runEstimateCmd,
	}

	cmd.Flags().Int("seats", 0, "Number of seats reporting data (default: seats)")
	cmd.Flags().Int("days", defaults.DailyCountsPerYear, "Daily count entries kept per year")
	cmd.Flags().Int("sessions-per-day", defaults.SessionsPerDay, "Sessions per seat and day")
	cmd.Flags().Int("history-limit", defaults.SessionHistoryLimit, "Sessions kept in each seat's history")
	cmd.Flags().Int("session-bytes", defaults.BytesPerSession, "Approximate size of one session record")
	cmd.Flags().Int("count-bytes", defaults.BytesPerDailyCount, "Approximate size of one daily count")
	cmd.Flags().Int("optimized-days", defaults.OptimizedDays, "Daily counts kept by the optimized structure")
	cmd.Flags().Int("optimized-sessions", defaults.OptimizedSessions, "Sessions kept by the optimized structure")
	cmd.Flags().Int("years", defaults.Years, "Years of growth to project")

	return cmd
}

// runEstimateCmd executes the estimate command.
func runEstimateCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	params, err := estimateParams(cmd, a.cfg.Seats)
	if err != nil {
		return err
	}

	e, err := estimate.Calculate(params)
	if err != nil {
		return err
	}
	if e.ExceedsFreeTier {
		a.logger.Warn("current structure exceeds the free tier", "mib", e.Current.TotalMiB())
	}

	_, err = a.writer().WriteEstimate(e)
	return err
}

// estimateParams reads the estimate flags. seats is used when --seats is
// not set.
func estimateParams(cmd *cobra.Command, seats int) (estimate.Params, error) {
	flags := cmd.Flags()
	p := estimate.Params{Seats: seats}

	fields := []struct {
		name  string
		value *int
	}{
		{"days", &p.DailyCountsPerYear},
		{"sessions-per-day", &p.SessionsPerDay},
		{"history-limit", &p.SessionHistoryLimit},
		{"session-bytes", &p.BytesPerSession},
		{"count-bytes", &p.BytesPerDailyCount},
		{"optimized-days", &p.OptimizedDays},
		{"optimized-sessions", &p.OptimizedSessions},
		{"years", &p.Years},
	}
	for _, f := range fields {
		v, err := flags.GetInt(f.name)
		if err != nil {
			return p, err
		}
		*f.value = v
	}

	if flags.Changed("seats") {
		v, err := flags.GetInt("seats")
		if err != nil {
			return p, err
		}
		p.Seats = v
	}
	return p, nil
}
