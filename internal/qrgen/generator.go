package qrgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"github.com/tantoon94/hotseat/internal/model"
)

const (
	// DefaultPixelsPerModule is the edge length of one module in pixels.
	DefaultPixelsPerModule = 10

	// DefaultConcurrency is the number of codes encoded at once.
	DefaultConcurrency = 4

	// RecoveryLevel is the error correction level of every code.
	RecoveryLevel = qrcode.Low
)

// ErrEmptyURL is returned when a target has no payload.
var ErrEmptyURL = errors.New("empty QR payload")

// Encode renders url as a PNG with pixelsPerModule pixels per module and
// the standard four-module quiet zone.
func Encode(url string, pixelsPerModule int) ([]byte, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if pixelsPerModule <= 0 {
		pixelsPerModule = DefaultPixelsPerModule
	}
	q, err := qrcode.New(url, RecoveryLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %q: %w", url, err)
	}
	// A negative size is interpreted as pixels per module.
	return q.PNG(-pixelsPerModule)
}

// Generator writes QR PNGs into a directory.
type Generator struct {
	outDir          string
	pixelsPerModule int
	concurrency     int
	logger          *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithPixelsPerModule sets the module size.
func WithPixelsPerModule(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.pixelsPerModule = n
		}
	}
}

// WithConcurrency bounds the number of codes encoded at once.
func WithConcurrency(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a Generator writing to outDir.
func NewGenerator(outDir string, opts ...Option) *Generator {
	g := &Generator{
		outDir:          outDir,
		pixelsPerModule: DefaultPixelsPerModule,
		concurrency:     DefaultConcurrency,
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OutputDir returns the directory PNGs are written to.
func (g *Generator) OutputDir() string {
	return g.outDir
}

// Generate creates the output directory and writes one PNG per target.
// Artifacts are returned in target order. The first failure cancels the
// remaining targets.
func (g *Generator) Generate(ctx context.Context, targets []Target) ([]model.Artifact, error) {
	if err := os.MkdirAll(g.outDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", g.outDir, err)
	}

	artifacts := make([]model.Artifact, len(targets))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for i, target := range targets {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			png, err := Encode(target.URL, g.pixelsPerModule)
			if err != nil {
				return fmt.Errorf("%s: %w", target.Name, err)
			}

			path := filepath.Join(g.outDir, target.File)
			if err := os.WriteFile(path, png, 0644); err != nil { //nolint:gosec // codes are printed and published
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			g.logger.Debug("qr code written", "target", target.Name, "url", target.URL, "path", path)
			artifacts[i] = model.NewArtifact(model.ArtifactQRCode, path, target.Seat, png)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}
