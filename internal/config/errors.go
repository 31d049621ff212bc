package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() for programmatic handling while still printing a readable
// message.
var (
	// ErrInvalidSeatCount is returned when fewer than one seat is configured.
	ErrInvalidSeatCount = errors.New("invalid seat count: must be at least 1")

	// ErrEmptyTemplate is returned when no seat page template is configured.
	ErrEmptyTemplate = errors.New("invalid pages.template: must not be empty")

	// ErrEmptyBaseURL is returned when the QR base URL for the selected
	// profile is empty.
	ErrEmptyBaseURL = errors.New("invalid qr base url: must not be empty")

	// ErrInvalidPixelsPerModule is returned when the QR module size is not positive.
	ErrInvalidPixelsPerModule = errors.New("invalid qr.pixels_per_module: must be positive")

	// ErrInvalidConcurrency is returned when the QR worker limit is not positive.
	ErrInvalidConcurrency = errors.New("invalid qr.concurrency: must be positive")

	// ErrInvalidPlateGeometry is returned when page or plate dimensions are
	// not positive, or margins and spacing are negative.
	ErrInvalidPlateGeometry = errors.New("invalid plate geometry: sizes must be positive and margins non-negative")

	// ErrInvalidImageDPI is returned when the PDF image resolution is not positive.
	ErrInvalidImageDPI = errors.New("invalid plates.image_dpi: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
