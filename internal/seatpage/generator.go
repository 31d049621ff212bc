package seatpage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tantoon94/hotseat/internal/model"
)

// TemplateSeat is the seat the template page belongs to.
const TemplateSeat = 1

var (
	// ErrTemplateNotFound is returned when the template page does not exist.
	ErrTemplateNotFound = errors.New("template page not found")

	// ErrInvalidSeat is returned for seat numbers below 1 or equal to the
	// template seat, which would overwrite the template.
	ErrInvalidSeat = errors.New("invalid seat number")
)

// Result is the outcome of Generate.
type Result struct {
	// Artifacts are the written pages in seat order.
	Artifacts []model.Artifact

	// Warnings are post-generation findings, such as ids that still
	// reference seat 1.
	Warnings []string
}

// Generator writes seat pages derived from a template.
type Generator struct {
	template string
	outDir   string
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a Generator reading template and writing pages to
// outDir. An empty outDir writes next to the template.
func NewGenerator(template, outDir string, opts ...Option) *Generator {
	if outDir == "" {
		outDir = filepath.Dir(template)
	}
	g := &Generator{
		template: template,
		outDir:   outDir,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Template returns the template path.
func (g *Generator) Template() string {
	return g.template
}

// Generate writes seat<N>.html for every seat. All seat numbers are
// validated before anything is written.
func (g *Generator) Generate(ctx context.Context, seats []int) (*Result, error) {
	for _, seat := range seats {
		if seat < 1 || seat == TemplateSeat {
			return nil, fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
		}
	}

	data, err := os.ReadFile(g.template)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, g.template)
		}
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	template := string(data)

	result := &Result{
		Artifacts: make([]model.Artifact, 0, len(seats)),
		Warnings:  make([]string, 0),
	}

	for _, seat := range seats {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		page := []byte(Render(template, seat))
		path := filepath.Join(g.outDir, model.SeatPageName(seat))
		if err := os.WriteFile(path, page, 0644); err != nil { //nolint:gosec // pages are served by a static web server
			return result, fmt.Errorf("failed to write %s: %w", path, err)
		}
		g.logger.Debug("seat page written", "seat", seat, "path", path, "bytes", len(page))
		result.Artifacts = append(result.Artifacts, model.NewArtifact(model.ArtifactSeatPage, path, seat, page))

		info, err := Inspect(bytes.NewReader(page))
		if err != nil {
			g.logger.Warn("could not parse generated page", "path", path, "error", err)
			continue
		}
		for _, id := range info.LeftoverIDs() {
			msg := fmt.Sprintf("%s: element id %q still references seat 1", filepath.Base(path), id)
			g.logger.Warn("leftover seat 1 id", "path", path, "id", id)
			result.Warnings = append(result.Warnings, msg)
		}
	}

	return result, nil
}
