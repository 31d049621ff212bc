package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tantoon94/hotseat/internal/model"
	"github.com/tantoon94/hotseat/internal/patch"
	"github.com/tantoon94/hotseat/internal/pipeline"
)

// patchDescriptions are the short help texts of the built-in sets.
var patchDescriptions = map[string]string{
	"durations":  "Show session durations as HH:MM:SS",
	"datasource": "Switch the pages to the Firestore, MQTT and demo data source chain",
}

// NewPatchCmd creates the patch command with one subcommand per rule set.
func NewPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Apply in-place fixes to existing seat pages",
		Long: `Patch rewrites seat pages in place with a named set of rules.

Each rule is skipped when the page already contains its result, so running
a patch twice changes nothing the second time. Pages that do not exist are
reported and skipped.`,
	}

	sets := patch.Sets()
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd.AddCommand(newPatchSetCmd(sets[name]))
	}

	return cmd
}

func newPatchSetCmd(set patch.Set) *cobra.Command {
	targets := "seat1.html to seat<N>.html"
	if set.DerivedOnly {
		targets = "seat2.html to seat<N>.html (not the seat1.html template)"
	}

	cmd := &cobra.Command{
		Use:   set.Name + " [file...]",
		Short: patchDescriptions[set.Name],
		Long: fmt.Sprintf(`%s.

Without arguments, %s in the exhibit directory
are patched.

Examples:
  hotseat patch %[3]s
  hotseat patch %[3]s seat2.html seat3.html
  hotseat patch %[3]s --dry-run`, patchDescriptions[set.Name], targets, set.Name),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatchCmd(cmd, set, args)
		},
	}

	cmd.Flags().BoolP("dry-run", "n", false,
		"Report the rules that would apply without writing")

	return cmd
}

// runPatchCmd executes a patch subcommand.
func runPatchCmd(cmd *cobra.Command, set patch.Set, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	paths := patchTargets(a.cfg, set)
	if len(args) > 0 {
		paths = make([]string, len(args))
		for i, arg := range args {
			paths[i] = a.cfg.Path(arg)
		}
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	run := model.NewRun("patch "+set.Name, a.cfg.Dir)
	if dryRun {
		return a.finish(ctx, run, previewPatches(ctx, run, set, paths))
	}
	return a.finish(ctx, run, pipeline.ApplyPatches(ctx, run, set, paths, a.logger))
}

// previewPatches records the rules that would change each file as warnings.
func previewPatches(ctx context.Context, run *model.Run, set patch.Set, paths []string) error {
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			run.Warn(fmt.Sprintf("%s: file not found, skipped", path))
			continue
		}
		if err != nil {
			return err
		}
		if _, applied := patch.Apply(string(data), set); len(applied) > 0 {
			run.Warn(fmt.Sprintf("%s: would apply %s", path, strings.Join(applied, ", ")))
		}
	}
	return nil
}
