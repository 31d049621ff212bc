package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `History lists the most recent runs recorded in the history database,
newest first, with the number of files each run wrote and how many of them
were new or changed compared with their previous generation.

Examples:
  hotseat history
  hotseat history --limit 5
  hotseat history show 3f2a9c1e
  hotseat history prune --keep 100`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Maximum number of runs to list (0 lists all)")

	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryPruneCmd())

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := a.openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	_, err = a.writer().WriteHistory(runs)
	return err
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run with its files",
		Long: `Show prints a recorded run. Any unique prefix of the run ID is accepted.

Each file is marked new, changed or unchanged relative to the generation
recorded before it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			db, err := a.openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			run, err := db.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = a.writer().WriteRun(run)
			return err
		},
	}
}

func newHistoryPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			keep, err := cmd.Flags().GetInt("keep")
			if err != nil {
				return err
			}
			if keep < 0 {
				return fmt.Errorf("invalid --keep %d: must not be negative", keep)
			}

			db, err := a.openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := db.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %d run(s), kept the newest %d\n", n, keep)
			return nil
		},
	}

	cmd.Flags().Int("keep", 100, "Number of runs to keep")

	return cmd
}
