package main

import (
	"github.com/spf13/cobra"

	"github.com/tantoon94/hotseat/internal/model"
	"github.com/tantoon94/hotseat/internal/pipeline"
)

// NewPlatesCmd creates the plates command and its pdf and dxf subcommands.
func NewPlatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plates",
		Short: "Lay out QR codes on laser-cut plate sheets",
		Long: `Plates arranges one square plate per seat on an A4 sheet, each carrying
the seat's QR code and a SEAT N title, and writes the sheet for the
laser cutter.

The QR codes are read from the QR output directory, so run "hotseat qr"
first. A seat whose code is missing is skipped with a warning and leaves
its slot empty.`,
	}

	cmd.AddCommand(newPlateFormatCmd(pipeline.FormatPDF,
		"Write the printable PDF sheet with embedded QR images",
		"hotseat plates pdf\n  hotseat plates pdf --seats 1,2 -o test_plates.pdf"))
	cmd.AddCommand(newPlateFormatCmd(pipeline.FormatDXF,
		"Write the DXF cut sheet with CUT, ENGRAVE and GUIDE layers",
		"hotseat plates dxf\n  hotseat plates dxf -o plates.dxf"))

	return cmd
}

func newPlateFormatCmd(format pipeline.PlateFormat, short, examples string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   format.String(),
		Short: short,
		Long:  short + ".\n\nExamples:\n  " + examples,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlatesCmd(cmd, format)
		},
	}

	cmd.Flags().StringP("output", "o", "",
		"Output file (default: plates.pdf_file or plates.dxf_file)")
	cmd.Flags().IntSlice("seats", nil,
		"Seats to place, in slot order (default: every configured seat)")

	return cmd
}

// runPlatesCmd executes plates pdf and plates dxf.
func runPlatesCmd(cmd *cobra.Command, format pipeline.PlateFormat) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if output == "" {
		output = a.platePath(format)
	}
	seats, err := cmd.Flags().GetIntSlice("seats")
	if err != nil {
		return err
	}
	if len(seats) == 0 {
		seats = a.cfg.SeatNumbers()
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	run := model.NewRun("plates "+format.String(), a.cfg.Dir)
	res, writeErr := pipeline.WritePlates(ctx, format, a.cfg.Path(output), seats, a.plateOptions())
	if res != nil {
		run.AddArtifacts(res.Artifact)
		for _, w := range res.Warnings {
			run.Warn(w)
		}
	}
	if err := a.finish(ctx, run, writeErr); err != nil {
		return err
	}

	if res != nil && len(res.Skipped) > 0 {
		a.notef("%d of %d plates placed; run \"hotseat qr\" to create the missing codes", len(res.Placed), len(seats))
	}
	return nil
}

// platePath returns the configured output file for format.
func (a *app) platePath(format pipeline.PlateFormat) string {
	if format == pipeline.FormatDXF {
		return a.cfg.Plates.DXFFile
	}
	return a.cfg.Plates.PDFFile
}
