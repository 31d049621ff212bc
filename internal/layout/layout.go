package layout

import (
	"errors"
	"fmt"
	"math"
)

// TitleInset is the distance from the plate's top edge to the title baseline.
const TitleInset = 5.0

var (
	// ErrNoPlatesPerRow is returned when a single plate does not fit between
	// the page margins.
	ErrNoPlatesPerRow = errors.New("plate is wider than the printable width")

	// ErrPageOverflow is returned when a row of plates falls below the
	// bottom margin.
	ErrPageOverflow = errors.New("plates do not fit on the page")

	// ErrQRTooSmall is returned when the QR margins leave no room for a code.
	ErrQRTooSmall = errors.New("no room left for the QR code")
)

// Spec is the page and plate geometry.
type Spec struct {
	PageWidth  float64
	PageHeight float64
	PlateSize  float64
	Margin     float64
	Spacing    float64

	// QRMargin is the horizontal inset of the QR code on each side.
	QRMargin float64

	// TitleBand is the height below the QR code that is kept free, and also
	// the QR code's offset from the plate bottom.
	TitleBand float64
}

// DefaultSpec returns 50 mm plates on an A4 page.
func DefaultSpec() Spec {
	return Spec{
		PageWidth:  210,
		PageHeight: 297,
		PlateSize:  50,
		Margin:     10,
		Spacing:    10,
		QRMargin:   7,
		TitleBand:  12,
	}
}

// Rect is an axis-aligned rectangle anchored at its bottom-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 { return r.Y + r.H }

// Center returns the centre point.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Top() <= r.Top()
}

// Corners returns the four corners counter-clockwise from the bottom-left.
func (r Rect) Corners() [4][2]float64 {
	return [4][2]float64{
		{r.X, r.Y},
		{r.Right(), r.Y},
		{r.Right(), r.Top()},
		{r.X, r.Top()},
	}
}

// Overlaps reports whether a and b share interior area. Rectangles that only
// touch along an edge do not overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.Right() && b.X < a.Right() && a.Y < b.Top() && b.Y < a.Top()
}

// Plate is one placed seat plate.
type Plate struct {
	// Seat is the seat number engraved on the plate.
	Seat int

	// Row and Col are the zero-based grid position.
	Row, Col int

	// Bounds is the cut outline.
	Bounds Rect

	// QR is the area the QR code occupies.
	QR Rect

	// TitleX and TitleY anchor the centred title baseline.
	TitleX, TitleY float64
}

// PlatesPerRow returns how many plates fit between the side margins.
func (s Spec) PlatesPerRow() int {
	return int(math.Floor((s.PageWidth - 2*s.Margin) / (s.PlateSize + s.Spacing)))
}

// QRSize returns the edge length of the QR area.
func (s Spec) QRSize() float64 {
	return s.PlateSize - 2*s.QRMargin - s.TitleBand
}

// Page returns the page rectangle.
func (s Spec) Page() Rect {
	return Rect{W: s.PageWidth, H: s.PageHeight}
}

// Validate checks that at least one plate with a QR code fits.
func (s Spec) Validate() error {
	if s.PlatesPerRow() < 1 {
		return fmt.Errorf("%w: plate %.1fmm, printable %.1fmm",
			ErrNoPlatesPerRow, s.PlateSize, s.PageWidth-2*s.Margin)
	}
	if s.QRSize() <= 0 {
		return fmt.Errorf("%w: %.1fmm plate with %.1fmm margins and %.1fmm title band",
			ErrQRTooSmall, s.PlateSize, s.QRMargin, s.TitleBand)
	}
	return nil
}

// Place lays out one plate per seat, left to right and top to bottom, in the
// order given. Slot i is used for seats[i] whether or not the caller later
// draws it, so a skipped plate leaves a gap instead of shifting the others.
func (s Spec) Place(seats []int) ([]Plate, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	perRow := s.PlatesPerRow()
	pitch := s.PlateSize + s.Spacing
	qrSize := s.QRSize()

	plates := make([]Plate, 0, len(seats))
	for i, seat := range seats {
		row, col := i/perRow, i%perRow
		x := s.Margin + float64(col)*pitch
		y := s.PageHeight - s.Margin - float64(row+1)*pitch
		if y < s.Margin {
			return nil, fmt.Errorf("%w: seat %d would start %.1fmm from the bottom edge",
				ErrPageOverflow, seat, y)
		}

		bounds := Rect{X: x, Y: y, W: s.PlateSize, H: s.PlateSize}
		plates = append(plates, Plate{
			Seat:   seat,
			Row:    row,
			Col:    col,
			Bounds: bounds,
			QR: Rect{
				X: x + (s.PlateSize-qrSize)/2,
				Y: y + s.TitleBand,
				W: qrSize,
				H: qrSize,
			},
			TitleX: x + s.PlateSize/2,
			TitleY: bounds.Top() - TitleInset,
		})
	}
	return plates, nil
}

// Capacity returns how many plates fit on one page.
func (s Spec) Capacity() int {
	perRow := s.PlatesPerRow()
	if perRow < 1 {
		return 0
	}
	pitch := s.PlateSize + s.Spacing
	rows := int(math.Floor((s.PageHeight - 2*s.Margin) / pitch))
	return perRow * max(rows, 0)
}

// FitText returns the largest size from largest down to smallest, in steps
// of step, whose measured width is below limit. When nothing fits, or
// largest is below smallest, smallest is returned.
func FitText(measure func(size float64) float64, largest, smallest, step, limit float64) float64 {
	if step <= 0 {
		step = 1
	}
	for size := largest; size >= smallest; size -= step {
		if measure(size) < limit {
			return size
		}
	}
	return smallest
}

// EstimateWidth approximates the width of text at a given height as
// 0.6 * height per character, for renderers without font metrics.
func EstimateWidth(text string) func(size float64) float64 {
	n := float64(len([]rune(text)))
	return func(size float64) float64 {
		return 0.6 * size * n
	}
}
