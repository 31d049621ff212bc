// Package qrgen renders the QR code PNGs placed next to each seat.
//
// Every seat gets a code pointing at its dashboard page, and three extra
// codes point at the main dashboard, the analytics page and the AR view.
// Codes use error correction level L with a four-module quiet zone, drawn
// black on white, and are encoded by github.com/skip2/go-qrcode.
package qrgen
