package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tantoon94/hotseat/internal/layout"
	"github.com/tantoon94/hotseat/internal/model"
	"github.com/tantoon94/hotseat/internal/patch"
	"github.com/tantoon94/hotseat/internal/plate"
	"github.com/tantoon94/hotseat/internal/qrgen"
	"github.com/tantoon94/hotseat/internal/seatpage"
)

// PagesStep writes seat pages from the seat 1 template.
type PagesStep struct {
	generator *seatpage.Generator
	seats     []int
}

// NewPagesStep creates a step generating the given seats.
func NewPagesStep(generator *seatpage.Generator, seats []int) *PagesStep {
	return &PagesStep{generator: generator, seats: seats}
}

// Name implements Step.
func (s *PagesStep) Name() string { return "pages" }

// Do implements Step.
func (s *PagesStep) Do(ctx context.Context, run *model.Run) error {
	res, err := s.generator.Generate(ctx, s.seats)
	if err != nil {
		return err
	}
	run.AddArtifacts(res.Artifacts...)
	for _, w := range res.Warnings {
		run.Warn(w)
	}
	return nil
}

// QRStep writes QR code PNGs.
type QRStep struct {
	generator *qrgen.Generator
	targets   []qrgen.Target
}

// NewQRStep creates a step encoding targets.
func NewQRStep(generator *qrgen.Generator, targets []qrgen.Target) *QRStep {
	return &QRStep{generator: generator, targets: targets}
}

// Name implements Step.
func (s *QRStep) Name() string { return "qr" }

// Do implements Step.
func (s *QRStep) Do(ctx context.Context, run *model.Run) error {
	artifacts, err := s.generator.Generate(ctx, s.targets)
	if err != nil {
		return err
	}
	run.AddArtifacts(artifacts...)
	return nil
}

// PlateFormat selects the plate document a PlateStep writes.
type PlateFormat int

const (
	// FormatPDF writes the printable sheet.
	FormatPDF PlateFormat = iota
	// FormatDXF writes the CAD cut sheet.
	FormatDXF
)

// String returns "pdf" or "dxf".
func (f PlateFormat) String() string {
	if f == FormatDXF {
		return "dxf"
	}
	return "pdf"
}

// PlateStep lays out seats on a sheet and writes it as PDF or DXF.
type PlateStep struct {
	format PlateFormat
	path   string
	seats  []int
	opts   plate.Options
}

// NewPlateStep creates a step writing seats to path in format.
func NewPlateStep(format PlateFormat, path string, seats []int, opts plate.Options) *PlateStep {
	return &PlateStep{format: format, path: path, seats: seats, opts: opts}
}

// Name implements Step.
func (s *PlateStep) Name() string { return s.format.String() }

// Do implements Step.
func (s *PlateStep) Do(ctx context.Context, run *model.Run) error {
	res, err := WritePlates(ctx, s.format, s.path, s.seats, s.opts)
	if err != nil {
		return err
	}
	run.AddArtifacts(res.Artifact)
	for _, w := range res.Warnings {
		run.Warn(w)
	}
	return nil
}

// WritePlates places seats with opts.Spec and writes the sheet to path.
func WritePlates(ctx context.Context, format PlateFormat, path string, seats []int, opts plate.Options) (*plate.Result, error) {
	plates, err := placeSeats(opts.Spec, seats)
	if err != nil {
		return nil, err
	}
	if format == FormatDXF {
		return plate.WriteDXF(ctx, path, plates, opts)
	}
	return plate.WritePDFFile(ctx, path, plates, opts)
}

func placeSeats(spec layout.Spec, seats []int) ([]layout.Plate, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	plates, err := spec.Place(seats)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out %d seats: %w", len(seats), err)
	}
	return plates, nil
}

// PatchStep applies a rule set to seat pages.
type PatchStep struct {
	set    patch.Set
	paths  []string
	logger *slog.Logger
}

// NewPatchStep creates a step applying set to paths.
func NewPatchStep(set patch.Set, paths []string, logger *slog.Logger) *PatchStep {
	return &PatchStep{set: set, paths: paths, logger: logger}
}

// Name implements Step.
func (s *PatchStep) Name() string { return "patch " + s.set.Name }

// Do implements Step. Missing files become warnings; any other per-file
// failure fails the step after every file has been tried.
func (s *PatchStep) Do(ctx context.Context, run *model.Run) error {
	return ApplyPatches(ctx, run, s.set, s.paths, s.logger)
}

// ApplyPatches patches paths with set and records the outcome on run.
func ApplyPatches(ctx context.Context, run *model.Run, set patch.Set, paths []string, logger *slog.Logger) error {
	results, err := patch.PatchFiles(ctx, paths, set, logger)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range results {
		switch {
		case errors.Is(res.Err, patch.ErrFileNotFound):
			run.Warn(fmt.Sprintf("%s: file not found, skipped", res.File))
		case res.Err != nil:
			errs = append(errs, res.Err)
		case res.Changed:
			run.AddArtifacts(res.Artifact)
		}
	}
	return errors.Join(errs...)
}
