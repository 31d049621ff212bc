package plate

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png" // register the PNG decoder
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tantoon94/hotseat/internal/layout"
	"github.com/tantoon94/hotseat/internal/model"
)

// PageTitle is printed at the top of every sheet.
const PageTitle = "SEAT QR CODES - LASER CUT PLATES"

// QRAreaLabel marks the QR guide boxes in the DXF.
const QRAreaLabel = "QR CODE AREA"

// ErrNoPlates is returned when there is nothing to draw.
var ErrNoPlates = errors.New("no plates to draw")

// Options configures both writers.
type Options struct {
	// Spec is the geometry the plates were placed with.
	Spec layout.Spec

	// QRDir holds the seat_<N>_qr.png images.
	QRDir string

	// ImageDPI is the resolution QR images are resampled to in the PDF.
	ImageDPI int

	// Material is printed on the specification line.
	Material string

	// Timestamp is stored as the PDF creation and modification date. A zero
	// value uses the current time; set it to get byte-identical output.
	Timestamp time.Time

	// Logger receives warnings for skipped plates.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// SpecLine returns the specification line printed at the bottom of a sheet.
func (o Options) SpecLine() string {
	material := o.Material
	if material == "" {
		material = "Acrylic/Wood"
	}
	return fmt.Sprintf("Plate Size: %gmm x %gmm | Material: %s | Cut along black borders",
		o.Spec.PlateSize, o.Spec.PlateSize, material)
}

// Result reports which seats made it onto the sheet.
type Result struct {
	// Placed are the seats drawn, in plate order.
	Placed []int

	// Skipped are seats left out because their QR image is missing.
	Skipped []int

	// Warnings describe skipped seats and unreadable images.
	Warnings []string

	// Artifact is the written document.
	Artifact model.Artifact
}

func newResult() *Result {
	return &Result{
		Placed:   make([]int, 0),
		Skipped:  make([]int, 0),
		Warnings: make([]string, 0),
	}
}

func (r *Result) skip(logger *slog.Logger, seat int, path string) {
	logger.Warn("qr image not found, plate skipped", "seat", seat, "path", path)
	r.Skipped = append(r.Skipped, seat)
	r.Warnings = append(r.Warnings, fmt.Sprintf("seat %d: QR code file %s not found", seat, path))
}

// qrImage is a seat's QR image as loaded from disk.
type qrImage struct {
	path    string
	missing bool
	img     image.Image
	err     error
}

// qrPath returns the image path for seat.
func qrPath(dir string, seat int) string {
	return filepath.Join(dir, model.SeatQRName(seat))
}

// loadImages reads and decodes the QR image of every plate concurrently.
// Per-image failures are reported in the returned slice, not as an error.
func loadImages(ctx context.Context, dir string, plates []layout.Plate) ([]qrImage, error) {
	images := make([]qrImage, len(plates))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i, p := range plates {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			images[i] = loadImage(qrPath(dir, p.Seat))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

func loadImage(path string) qrImage {
	f, err := os.Open(path)
	if err != nil {
		return qrImage{path: path, missing: errors.Is(err, os.ErrNotExist), err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return qrImage{path: path, err: fmt.Errorf("failed to decode %s: %w", path, err)}
	}
	return qrImage{path: path, img: img}
}

// hasImage reports whether the QR image for seat exists.
func hasImage(dir string, seat int) bool {
	_, err := os.Stat(qrPath(dir, seat))
	return err == nil
}
