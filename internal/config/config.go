package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/tantoon94/hotseat/internal/model"
)

// Default configuration values.
// These mirror the constants the exhibit was originally built with: five
// seats, seat1.html as the template, A4 pages with 5cm plates.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "hotseat"

	// DefaultSeats is the number of seats in the exhibit.
	DefaultSeats = 5

	// DefaultTemplate is the seat page every other page is derived from.
	DefaultTemplate = "seat1.html"

	// DefaultPreviewURL is where a local static server usually serves the pages.
	DefaultPreviewURL = "http://localhost:8000/"

	// DefaultWatchDebounce collapses the burst of write events editors emit on save.
	DefaultWatchDebounce = 500 * time.Millisecond

	// DefaultBaseURL is the production site hosting the seat dashboards.
	DefaultBaseURL = "https://tantoon94.github.io/Hotseat_Network/"

	// DefaultLocalURL is the base URL used with --local.
	DefaultLocalURL = DefaultPreviewURL

	// DefaultQRDir is the directory QR PNGs are written to and read from.
	DefaultQRDir = "qr_codes"

	// DefaultPixelsPerModule is the size of one QR module in pixels.
	DefaultPixelsPerModule = 10

	// DefaultQRConcurrency bounds the number of PNGs encoded at once.
	DefaultQRConcurrency = 4

	// DefaultPageWidth and DefaultPageHeight describe an A4 page in millimetres.
	DefaultPageWidth  = 210.0
	DefaultPageHeight = 297.0

	// DefaultPlateSize is the edge length of a square plate in millimetres.
	DefaultPlateSize = 50.0

	// DefaultMargin is the page margin in millimetres.
	DefaultMargin = 10.0

	// DefaultSpacing is the gap between plates in millimetres.
	DefaultSpacing = 10.0

	// DefaultQRMargin is the horizontal inset of the QR code inside a plate.
	DefaultQRMargin = 7.0

	// DefaultTitleBand is the vertical space reserved under the QR code.
	DefaultTitleBand = 12.0

	// DefaultImageDPI is the resolution QR images are resampled to for the PDF.
	DefaultImageDPI = 300

	// DefaultPDFFile and DefaultDXFFile are the plate document file names.
	DefaultPDFFile = "seat_qr_codes_laser_cut.pdf"
	DefaultDXFFile = "seat_qr_codes_laser_cut.dxf"

	// DefaultMaterial is printed on the specification line of plate documents.
	DefaultMaterial = "Acrylic/Wood"
)

// Config holds all configuration options for hotseat.
// It is populated from defaults, the optional config file, environment
// variables and finally CLI flags, then passed down explicitly.
type Config struct {
	// Dir is the working directory all relative paths are resolved against.
	Dir string `koanf:"dir" yaml:"dir"`

	// Seats is the number of seats in the exhibit. Seat 1 is the template.
	Seats int `koanf:"seats" yaml:"seats"`

	// Pages configures seat page generation.
	Pages PagesConfig `koanf:"pages" yaml:"pages"`

	// QR configures QR code generation.
	QR QRConfig `koanf:"qr" yaml:"qr"`

	// Plates configures the laser-cut plate layout.
	Plates PlatesConfig `koanf:"plates" yaml:"plates"`

	// History configures the artifact history database.
	History HistoryConfig `koanf:"history" yaml:"history"`

	// Verbose enables debug logging. Set from the CLI only.
	Verbose bool `koanf:"-" yaml:"-"`

	// JSONReport and MarkdownReport select the run summary format.
	// They are mutually exclusive and set from the CLI only.
	JSONReport     bool `koanf:"-" yaml:"-"`
	MarkdownReport bool `koanf:"-" yaml:"-"`

	// ConfigFilePath is the file the configuration was loaded from, if any.
	ConfigFilePath string `koanf:"-" yaml:"-"`
}

// PagesConfig configures seat page generation.
type PagesConfig struct {
	// Template is the seat 1 page other pages are derived from.
	Template string `koanf:"template" yaml:"template"`

	// PreviewURL is printed after generation as the local preview location.
	PreviewURL string `koanf:"preview_url" yaml:"preview_url"`

	// WatchDebounce is the quiet period before a watched template is re-rendered.
	WatchDebounce time.Duration `koanf:"watch_debounce" yaml:"watch_debounce"`
}

// QRConfig configures QR code generation.
type QRConfig struct {
	// BaseURL is the production site the seat pages are hosted on.
	BaseURL string `koanf:"base_url" yaml:"base_url"`

	// LocalURL is used instead of BaseURL when Local is set.
	LocalURL string `koanf:"local_url" yaml:"local_url"`

	// Local selects LocalURL as the QR payload base.
	Local bool `koanf:"local" yaml:"local"`

	// OutputDir is where PNGs are written, relative to Dir.
	OutputDir string `koanf:"output_dir" yaml:"output_dir"`

	// PixelsPerModule is the pixel size of one QR module.
	PixelsPerModule int `koanf:"pixels_per_module" yaml:"pixels_per_module"`

	// Extras adds the main, analytics and AR dashboard codes.
	Extras bool `koanf:"extras" yaml:"extras"`

	// Concurrency bounds the number of codes encoded at once.
	Concurrency int `koanf:"concurrency" yaml:"concurrency"`
}

// PlatesConfig configures the laser-cut plate layout. Lengths are in millimetres.
type PlatesConfig struct {
	PageWidth  float64 `koanf:"page_width" yaml:"page_width"`
	PageHeight float64 `koanf:"page_height" yaml:"page_height"`
	PlateSize  float64 `koanf:"plate_size" yaml:"plate_size"`
	Margin     float64 `koanf:"margin" yaml:"margin"`
	Spacing    float64 `koanf:"spacing" yaml:"spacing"`
	QRMargin   float64 `koanf:"qr_margin" yaml:"qr_margin"`
	TitleBand  float64 `koanf:"title_band" yaml:"title_band"`

	// ImageDPI is the resolution QR images are resampled to for the PDF.
	ImageDPI int `koanf:"image_dpi" yaml:"image_dpi"`

	// PDFFile and DXFFile are output file names relative to Dir.
	PDFFile string `koanf:"pdf_file" yaml:"pdf_file"`
	DXFFile string `koanf:"dxf_file" yaml:"dxf_file"`

	// Material is printed on the specification line.
	Material string `koanf:"material" yaml:"material"`
}

// HistoryConfig configures the artifact history database.
type HistoryConfig struct {
	// Enabled records every run and artifact in the database.
	Enabled bool `koanf:"enabled" yaml:"enabled"`

	// DBDir is the directory holding hotseat.db.
	// Defaults to the XDG data directory.
	DBDir string `koanf:"db_dir" yaml:"db_dir"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Dir:   ".",
		Seats: DefaultSeats,
		Pages: PagesConfig{
			Template:      DefaultTemplate,
			PreviewURL:    DefaultPreviewURL,
			WatchDebounce: DefaultWatchDebounce,
		},
		QR: QRConfig{
			BaseURL:         DefaultBaseURL,
			LocalURL:        DefaultLocalURL,
			OutputDir:       DefaultQRDir,
			PixelsPerModule: DefaultPixelsPerModule,
			Extras:          true,
			Concurrency:     DefaultQRConcurrency,
		},
		Plates: PlatesConfig{
			PageWidth:  DefaultPageWidth,
			PageHeight: DefaultPageHeight,
			PlateSize:  DefaultPlateSize,
			Margin:     DefaultMargin,
			Spacing:    DefaultSpacing,
			QRMargin:   DefaultQRMargin,
			TitleBand:  DefaultTitleBand,
			ImageDPI:   DefaultImageDPI,
			PDFFile:    DefaultPDFFile,
			DXFFile:    DefaultDXFFile,
			Material:   DefaultMaterial,
		},
		History: HistoryConfig{
			Enabled: true,
			DBDir:   XDGDataDir(),
		},
	}
}

// XDGDataDir returns the XDG data directory for hotseat.
// On Linux: ~/.local/share/hotseat
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for hotseat.
// On Linux: ~/.config/hotseat
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Path resolves name against the working directory unless it is absolute.
func (c *Config) Path(name string) string {
	if filepath.IsAbs(name) || c.Dir == "" {
		return name
	}
	return filepath.Join(c.Dir, name)
}

// QRBaseURL returns the base URL QR payloads are built from.
func (c *Config) QRBaseURL() string {
	if c.QR.Local {
		return c.QR.LocalURL
	}
	return c.QR.BaseURL
}

// SeatNumbers returns 1..Seats.
func (c *Config) SeatNumbers() []int {
	seats := make([]int, 0, c.Seats)
	for i := 1; i <= c.Seats; i++ {
		seats = append(seats, i)
	}
	return seats
}

// SeatFiles returns the seat page file names for 1..Seats.
func (c *Config) SeatFiles() []string {
	files := make([]string, 0, c.Seats)
	for _, n := range c.SeatNumbers() {
		files = append(files, model.SeatPageName(n))
	}
	return files
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Seats < 1 {
		return ErrInvalidSeatCount
	}

	if c.Pages.Template == "" {
		return ErrEmptyTemplate
	}

	if c.QRBaseURL() == "" {
		return ErrEmptyBaseURL
	}

	if c.QR.PixelsPerModule <= 0 {
		return ErrInvalidPixelsPerModule
	}

	if c.QR.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	p := c.Plates
	if p.PageWidth <= 0 || p.PageHeight <= 0 || p.PlateSize <= 0 ||
		p.Margin < 0 || p.Spacing < 0 || p.QRMargin < 0 || p.TitleBand < 0 {
		return ErrInvalidPlateGeometry
	}

	if p.ImageDPI <= 0 {
		return ErrInvalidImageDPI
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
