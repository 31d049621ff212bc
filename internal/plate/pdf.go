package plate

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/draw"

	"github.com/tantoon94/hotseat/internal/layout"
	"github.com/tantoon94/hotseat/internal/model"
)

const (
	// ptPerMM converts millimetres to PostScript points.
	ptPerMM = 72 / 25.4

	borderWidthPt   = 0.5
	pageTitleSizePt = 16
	specLineSizePt  = 10
	minTitleSizePt  = 12
	errorTextSizePt = 8

	defaultImageDPI = 300

	// pageTextInsetPt is the distance of the page title and spec line
	// baselines from the top and bottom page edges.
	pageTextInsetPt = 30
)

// WritePDF draws plates onto a single page and writes the PDF to w.
func WritePDF(ctx context.Context, w io.Writer, plates []layout.Plate, opts Options) (*Result, error) {
	if len(plates) == 0 {
		return nil, ErrNoPlates
	}

	images, err := loadImages(ctx, opts.QRDir, plates)
	if err != nil {
		return nil, err
	}

	spec := opts.Spec
	logger := opts.logger()
	res := newResult()

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: spec.PageWidth, Ht: spec.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(PageTitle, false)
	pdf.SetCreator("hotseat", false)
	if !opts.Timestamp.IsZero() {
		pdf.SetCreationDate(opts.Timestamp)
		pdf.SetModificationDate(opts.Timestamp)
	}
	pdf.AddPage()

	// fpdf measures y downwards from the top edge.
	flip := func(y float64) float64 { return spec.PageHeight - y }

	if err := embedSheet(pdf, spec, plates, images, opts.ImageDPI); err != nil {
		return nil, err
	}

	for i, p := range plates {
		img := images[i]
		if img.missing {
			res.skip(logger, p.Seat, img.path)
			continue
		}

		b := p.Bounds
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(borderWidthPt / ptPerMM)
		pdf.Rect(b.X, flip(b.Top()), b.W, b.H, "D")

		if img.err != nil {
			logger.Warn("qr image unreadable", "seat", p.Seat, "path", img.path, "error", img.err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("seat %d: %v", p.Seat, img.err))
			pdf.SetFont("Helvetica", "", errorTextSizePt)
			pdf.SetTextColor(255, 0, 0)
			x := b.X + 5/ptPerMM
			y := flip(b.Y + b.H/2)
			pdf.Text(x, y, "QR Code Error")
			pdf.Text(x, y+errorTextSizePt/ptPerMM, fmt.Sprintf("Seat %d", p.Seat))
		}

		drawTitle(pdf, p, flip)
		res.Placed = append(res.Placed, p.Seat)
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", pageTitleSizePt)
	pdf.Text((spec.PageWidth-pdf.GetStringWidth(PageTitle))/2, pageTextInsetPt/ptPerMM, PageTitle)

	line := opts.SpecLine()
	pdf.SetFont("Helvetica", "", specLineSizePt)
	pdf.SetTextColor(128, 128, 128)
	pdf.Text((spec.PageWidth-pdf.GetStringWidth(line))/2, flip(pageTextInsetPt/ptPerMM), line)

	if err := pdf.Output(w); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return res, nil
}

// WritePDFFile is WritePDF into the file at path.
func WritePDFFile(ctx context.Context, path string, plates []layout.Plate, opts Options) (*Result, error) {
	var buf bytes.Buffer
	res, err := WritePDF(ctx, &buf, plates, opts)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil { //nolint:gosec // sent to the print shop
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	res.Artifact = model.NewArtifact(model.ArtifactPlatePDF, path, 0, buf.Bytes())
	return res, nil
}

// sheetImage is the name of the composed QR image in the document.
const sheetImage = "qr-sheet"

// embedSheet resamples every readable QR image into its QR area on one
// page-sized greyscale image at dpi and places that image under the plate
// outlines. The document holds a single image, so its object order does
// not depend on map iteration inside fpdf.
func embedSheet(pdf *fpdf.Fpdf, spec layout.Spec, plates []layout.Plate, images []qrImage, dpi int) error {
	if dpi <= 0 {
		dpi = defaultImageDPI
	}
	px := func(mm float64) int {
		return max(int(math.Round(mm/25.4*float64(dpi))), 1)
	}

	sheet := image.NewGray(image.Rect(0, 0, px(spec.PageWidth), px(spec.PageHeight)))
	draw.Draw(sheet, sheet.Bounds(), image.White, image.Point{}, draw.Src)

	drawn := 0
	for i, p := range plates {
		img := images[i]
		if img.img == nil {
			continue
		}
		// Image rows grow downwards from the top edge.
		x, y, size := px(p.QR.X), px(spec.PageHeight-p.QR.Top()), px(p.QR.W)
		draw.CatmullRom.Scale(sheet, image.Rect(x, y, x+size, y+size), img.img, img.img.Bounds(), draw.Src, nil)
		drawn++
	}
	if drawn == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sheet); err != nil {
		return fmt.Errorf("failed to encode QR sheet: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(sheetImage, opts, &buf)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to embed QR sheet: %w", err)
	}
	pdf.ImageOptions(sheetImage, 0, 0, spec.PageWidth, spec.PageHeight, false, opts, 0, "")
	return nil
}

// drawTitle engraves "SEAT N" centred on the title anchor, at about a quarter
// of the QR height but never narrower than the plate allows.
func drawTitle(pdf *fpdf.Fpdf, p layout.Plate, flip func(float64) float64) {
	title := model.SeatTitle(p.Seat)
	measure := func(size float64) float64 {
		pdf.SetFont("Helvetica", "B", size)
		return pdf.GetStringWidth(title) * ptPerMM
	}
	size := layout.FitText(measure,
		math.Floor(p.QR.H*ptPerMM*0.25), minTitleSizePt, 1, p.Bounds.W*ptPerMM-10)

	pdf.SetFont("Helvetica", "B", size)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(p.TitleX-pdf.GetStringWidth(title)/2, flip(p.TitleY), title)
}
