// Package plate renders the laser-cut plate sheet as PDF and DXF.
//
// Both writers take plates placed by package layout. The PDF embeds the
// seat QR images, resampled in memory, for proofing and print-and-mount
// workflows. The DXF carries the cut outlines, engraved titles and QR guide
// boxes for the laser cutter; the QR images themselves are added in the
// cutter's software.
//
// A plate whose QR image is missing is skipped with a warning, matching the
// best-effort behaviour of the rest of the tool.
package plate
