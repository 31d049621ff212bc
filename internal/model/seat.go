package model

import (
	"fmt"
	"strings"
)

// SeatPageName returns the file name of a seat page, e.g. seat3.html.
func SeatPageName(seat int) string {
	return fmt.Sprintf("seat%d.html", seat)
}

// SeatQRName returns the file name of a seat's QR code, e.g. seat_3_qr.png.
func SeatQRName(seat int) string {
	return fmt.Sprintf("seat_%d_qr.png", seat)
}

// SeatTitle returns the engraved plate title, e.g. SEAT 3.
func SeatTitle(seat int) string {
	return fmt.Sprintf("SEAT %d", seat)
}

// SeatURL joins a base URL and a seat page name.
// The base URL is normalized to end with a slash first.
func SeatURL(baseURL string, seat int) string {
	return NormalizeBaseURL(baseURL) + SeatPageName(seat)
}

// NormalizeBaseURL makes sure a non-empty base URL ends with "/".
func NormalizeBaseURL(baseURL string) string {
	if baseURL == "" || strings.HasSuffix(baseURL, "/") {
		return baseURL
	}
	return baseURL + "/"
}
