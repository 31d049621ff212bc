// Package layout computes where the seat plates go on a page.
//
// All lengths are millimetres and the origin is the bottom-left corner of
// the page, the convention CAD tools use. The PDF writer flips the y axis
// itself. The same Spec drives both the PDF and the DXF so the two documents
// always agree on plate and QR positions.
package layout
