package patch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/tantoon94/hotseat/internal/model"
)

// ErrFileNotFound is returned when a page to patch does not exist.
var ErrFileNotFound = errors.New("file not found")

// Rule is one rewrite.
type Rule struct {
	// Name identifies the rule in results and logs.
	Name string

	// Pattern selects the text to replace.
	Pattern *regexp.Regexp

	// Template is the replacement. Group references such as ${1} are
	// expanded unless Literal is set.
	Template string

	// Literal inserts Template verbatim.
	Literal bool

	// SkipIfContains skips the rule when the original content contains it.
	SkipIfContains string
}

// Set is a named, ordered list of rules.
type Set struct {
	Name  string
	Rules []Rule

	// DerivedOnly leaves the template page out of the default targets.
	DerivedOnly bool
}

// Result describes the outcome for one file.
type Result struct {
	// File is the patched path.
	File string

	// Applied lists the rules that changed the content, in order.
	Applied []string

	// Changed reports whether the file was rewritten.
	Changed bool

	// Err is set when the file could not be patched. Missing files wrap
	// ErrFileNotFound.
	Err error

	// Artifact describes the rewritten file when Changed is set.
	Artifact model.Artifact
}

// Apply runs set over content and returns the new content with the names
// of the rules that changed something.
func Apply(content string, set Set) (string, []string) {
	original := content
	applied := make([]string, 0, len(set.Rules))

	for _, r := range set.Rules {
		if r.SkipIfContains != "" && strings.Contains(original, r.SkipIfContains) {
			continue
		}
		var next string
		if r.Literal {
			next = r.Pattern.ReplaceAllLiteralString(content, r.Template)
		} else {
			next = r.Pattern.ReplaceAllString(content, r.Template)
		}
		if next != content {
			applied = append(applied, r.Name)
			content = next
		}
	}
	return content, applied
}

// PatchFile applies set to the file at path and writes it back when the
// content changed.
func PatchFile(path string, set Set) (*Result, error) {
	res := &Result{File: path, Applied: make([]string, 0)}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	patched, applied := Apply(string(data), set)
	res.Applied = applied
	if patched == string(data) {
		return res, nil
	}

	if err := os.WriteFile(path, []byte(patched), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	res.Changed = true
	res.Artifact = model.NewArtifact(model.ArtifactPatchedPage, path, seatFromPath(path), []byte(patched))
	return res, nil
}

// PatchFiles patches every path in order. A file that is missing or cannot
// be patched is recorded in its Result and does not stop the others; only
// cancellation returns an error.
func PatchFiles(ctx context.Context, paths []string, set Set, logger *slog.Logger) ([]*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	results := make([]*Result, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := PatchFile(path, set)
		if err != nil {
			if errors.Is(err, ErrFileNotFound) {
				logger.Warn("file not found, skipping", "set", set.Name, "path", path)
			} else {
				logger.Error("patch failed", "set", set.Name, "path", path, "error", err)
			}
			results = append(results, &Result{File: path, Applied: make([]string, 0), Err: err})
			continue
		}

		logger.Debug("file patched", "set", set.Name, "path", path, "applied", res.Applied, "changed", res.Changed)
		results = append(results, res)
	}
	return results, nil
}

var seatFileName = regexp.MustCompile(`seat(\d+)\.html$`)

// seatFromPath returns N for paths ending in seatN.html, or 0.
func seatFromPath(path string) int {
	m := seatFileName.FindStringSubmatch(path)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
