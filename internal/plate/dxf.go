package plate

import (
	"context"
	"fmt"
	"os"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/tantoon94/hotseat/internal/layout"
	"github.com/tantoon94/hotseat/internal/model"
)

// DXF layer names. Cutters map layers to operations, so outlines, engraving
// and guides are kept apart.
const (
	LayerCut     = "CUT"
	LayerEngrave = "ENGRAVE"
	LayerGuide   = "GUIDE"
)

// AutoCAD colour indices for the layers.
const (
	colorRed   = 1
	colorBlue  = 5
	colorWhite = 7
)

const (
	pageTitleHeight = 5.0
	specLineHeight  = 2.5
	qrLabelHeight   = 3.0
	minTitleHeight  = 5.0
	titleStep       = 0.5

	// pageTextInset is the distance of the page title and spec line
	// baselines from the top and bottom page edges.
	pageTextInset = 15.0
)

// WriteDXF writes the cut sheet for plates to path. The QR images are not
// embedded, but a plate is still skipped when its image is missing so the
// DXF and PDF always contain the same seats.
func WriteDXF(ctx context.Context, path string, plates []layout.Plate, opts Options) (*Result, error) {
	if len(plates) == 0 {
		return nil, ErrNoPlates
	}

	logger := opts.logger()
	res := newResult()
	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerCut, colorRed, dxf.DefaultLineType, false); err != nil {
		return nil, fmt.Errorf("failed to add layer %s: %w", LayerCut, err)
	}
	if _, err := d.AddLayer(LayerEngrave, colorWhite, dxf.DefaultLineType, false); err != nil {
		return nil, fmt.Errorf("failed to add layer %s: %w", LayerEngrave, err)
	}
	if _, err := d.AddLayer(LayerGuide, colorBlue, dxf.DefaultLineType, false); err != nil {
		return nil, fmt.Errorf("failed to add layer %s: %w", LayerGuide, err)
	}

	for _, p := range plates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !hasImage(opts.QRDir, p.Seat) {
			res.skip(logger, p.Seat, qrPath(opts.QRDir, p.Seat))
			continue
		}

		if err := drawPlate(d, p); err != nil {
			return nil, fmt.Errorf("seat %d: %w", p.Seat, err)
		}
		res.Placed = append(res.Placed, p.Seat)
	}

	spec := opts.Spec
	if err := d.ChangeLayer(LayerEngrave); err != nil {
		return nil, err
	}
	if err := centredText(d, PageTitle, spec.PageWidth/2, spec.PageHeight-pageTextInset, pageTitleHeight); err != nil {
		return nil, err
	}
	if err := centredText(d, opts.SpecLine(), spec.PageWidth/2, pageTextInset, specLineHeight); err != nil {
		return nil, err
	}

	if err := d.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res.Artifact = model.NewArtifact(model.ArtifactPlateDXF, path, 0, data)
	return res, nil
}

func drawPlate(d *drawing.Drawing, p layout.Plate) error {
	if err := d.ChangeLayer(LayerCut); err != nil {
		return err
	}
	if err := rect(d, p.Bounds); err != nil {
		return err
	}

	if err := d.ChangeLayer(LayerGuide); err != nil {
		return err
	}
	if err := rect(d, p.QR); err != nil {
		return err
	}
	cx, cy := p.QR.Center()
	if err := centredText(d, QRAreaLabel, cx, cy, qrLabelHeight); err != nil {
		return err
	}

	if err := d.ChangeLayer(LayerEngrave); err != nil {
		return err
	}
	title := model.SeatTitle(p.Seat)
	height := layout.FitText(layout.EstimateWidth(title),
		p.QR.H*0.25, minTitleHeight, titleStep, p.Bounds.W-6)
	return centredText(d, title, p.TitleX, p.TitleY, height)
}

// rect draws r as four lines on the current layer.
func rect(d *drawing.Drawing, r layout.Rect) error {
	c := r.Corners()
	for i := range c {
		next := c[(i+1)%len(c)]
		if _, err := d.Line(c[i][0], c[i][1], 0, next[0], next[1], 0); err != nil {
			return err
		}
	}
	return nil
}

// centredText places text with its estimated midpoint at x.
func centredText(d *drawing.Drawing, text string, x, y, height float64) error {
	w := layout.EstimateWidth(text)(height)
	_, err := d.Text(text, x-w/2, y, 0, height)
	return err
}
