package qrgen

import (
	"fmt"

	"github.com/tantoon94/hotseat/internal/model"
)

// Target is one QR code to generate.
type Target struct {
	// Name identifies the target in logs, e.g. "seat-3" or "analytics".
	Name string `json:"name"`

	// File is the PNG file name inside the output directory.
	File string `json:"file"`

	// URL is the encoded payload.
	URL string `json:"url"`

	// Description is a human readable label.
	Description string `json:"description"`

	// Seat is the seat number, or 0 for the extra codes.
	Seat int `json:"seat,omitempty"`
}

// SeatTargets returns one target per seat 1..seats linking to its page.
func SeatTargets(baseURL string, seats int) []Target {
	base := model.NormalizeBaseURL(baseURL)
	targets := make([]Target, 0, seats)
	for n := 1; n <= seats; n++ {
		targets = append(targets, Target{
			Name:        fmt.Sprintf("seat-%d", n),
			File:        model.SeatQRName(n),
			URL:         model.SeatURL(base, n),
			Description: fmt.Sprintf("Seat %d", n),
			Seat:        n,
		})
	}
	return targets
}

// ExtraTargets returns the main dashboard, analytics and AR dashboard codes.
func ExtraTargets(baseURL string) []Target {
	base := model.NormalizeBaseURL(baseURL)
	return []Target{
		{Name: "main", File: "main_dashboard_qr.png", URL: base, Description: "Main Dashboard"},
		{Name: "analytics", File: "analytics_qr.png", URL: base + "analytics.html", Description: "Analytics Dashboard"},
		{Name: "ar", File: "ar_dashboard_qr.png", URL: base + "?ar=true", Description: "AR Dashboard"},
	}
}
