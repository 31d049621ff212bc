package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ArtifactKind identifies what produced a file.
type ArtifactKind int

const (
	// ArtifactUnknown is the zero value and never written by a generator.
	ArtifactUnknown ArtifactKind = iota

	// ArtifactSeatPage is a generated seat<N>.html page.
	ArtifactSeatPage

	// ArtifactQRCode is a QR code PNG.
	ArtifactQRCode

	// ArtifactPlatePDF is the printable plate sheet.
	ArtifactPlatePDF

	// ArtifactPlateDXF is the laser-cutter drawing.
	ArtifactPlateDXF

	// ArtifactPatchedPage is a seat page rewritten by a patch set.
	ArtifactPatchedPage
)

var artifactKindNames = map[ArtifactKind]string{
	ArtifactUnknown:     "unknown",
	ArtifactSeatPage:    "seat_page",
	ArtifactQRCode:      "qr_code",
	ArtifactPlatePDF:    "plate_pdf",
	ArtifactPlateDXF:    "plate_dxf",
	ArtifactPatchedPage: "patched_page",
}

// String returns the stable name stored in the history database.
func (k ArtifactKind) String() string {
	if name, ok := artifactKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler so kinds serialize by name.
func (k ArtifactKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ArtifactKind) UnmarshalText(text []byte) error {
	parsed, err := ParseArtifactKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseArtifactKind converts a stored name back to an ArtifactKind.
func ParseArtifactKind(s string) (ArtifactKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for kind, name := range artifactKindNames {
		if name == s {
			return kind, nil
		}
	}
	return ArtifactUnknown, fmt.Errorf("unknown artifact kind %q", s)
}

// Artifact is a file written by one of the generators.
type Artifact struct {
	// Kind is the generator that produced the file.
	Kind ArtifactKind `json:"kind"`

	// Path is the file path as written.
	Path string `json:"path"`

	// Seat is the seat the file belongs to, or 0 for shared files.
	Seat int `json:"seat,omitempty"`

	// Bytes is the file size.
	Bytes int64 `json:"bytes"`

	// SHA256 is the hex digest of the file contents.
	SHA256 string `json:"sha256"`

	// PreviousSHA256 is the digest recorded for the same path by the previous
	// run, filled in by the history database. Empty when there is no history.
	PreviousSHA256 string `json:"previous_sha256,omitempty"`
}

// NewArtifact describes data that was written to path.
func NewArtifact(kind ArtifactKind, path string, seat int, data []byte) Artifact {
	sum := sha256.Sum256(data)
	return Artifact{
		Kind:   kind,
		Path:   path,
		Seat:   seat,
		Bytes:  int64(len(data)),
		SHA256: hex.EncodeToString(sum[:]),
	}
}

// IsNew reports whether no previous generation of the path is known.
func (a Artifact) IsNew() bool {
	return a.PreviousSHA256 == ""
}

// Changed reports whether the content differs from the previous generation.
func (a Artifact) Changed() bool {
	return a.PreviousSHA256 != "" && a.PreviousSHA256 != a.SHA256
}

// State returns "new", "changed" or "unchanged" relative to history.
func (a Artifact) State() string {
	switch {
	case a.IsNew():
		return "new"
	case a.Changed():
		return "changed"
	default:
		return "unchanged"
	}
}
