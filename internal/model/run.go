package model

import (
	"time"

	"github.com/google/uuid"
)

// Run is the result of one hotseat invocation.
// Generators append artifacts and warnings to it; report writers and the
// history database consume it.
type Run struct {
	// ID uniquely identifies the run in the history database.
	ID string `json:"id"`

	// Command is the subcommand that produced the run, e.g. "pages".
	Command string `json:"command"`

	// Dir is the working directory the run operated in.
	Dir string `json:"dir"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Artifacts are the files written, in generation order.
	Artifacts []Artifact `json:"artifacts"`

	// Warnings are non-fatal problems such as a missing QR image.
	Warnings []string `json:"warnings,omitempty"`

	// Steps lists the pipeline steps that ran.
	Steps []string `json:"steps,omitempty"`

	// Error is the fatal error message, if the run failed.
	Error string `json:"error,omitempty"`
}

// NewRun creates a Run for command with a fresh ID.
func NewRun(command, dir string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Command:   command,
		Dir:       dir,
		StartedAt: time.Now().UTC(),
		Artifacts: make([]Artifact, 0),
		Warnings:  make([]string, 0),
	}
}

// AddArtifacts appends artifacts to the run.
func (r *Run) AddArtifacts(artifacts ...Artifact) {
	r.Artifacts = append(r.Artifacts, artifacts...)
}

// Warn records a non-fatal problem.
func (r *Run) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Fail records a fatal error.
func (r *Run) Fail(err error) {
	if err != nil {
		r.Error = err.Error()
	}
}

// Finish stamps the end time.
func (r *Run) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// Duration returns how long the run took, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Failed reports whether the run recorded a fatal error.
func (r *Run) Failed() bool {
	return r.Error != ""
}

// CountByKind returns the number of artifacts of each kind.
func (r *Run) CountByKind() map[ArtifactKind]int {
	counts := make(map[ArtifactKind]int)
	for _, a := range r.Artifacts {
		counts[a.Kind]++
	}
	return counts
}

// ChangedCount returns how many artifacts are new or differ from history.
func (r *Run) ChangedCount() int {
	n := 0
	for _, a := range r.Artifacts {
		if a.IsNew() || a.Changed() {
			n++
		}
	}
	return n
}
