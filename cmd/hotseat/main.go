// Package main provides the entry point for the hotseat CLI.
//
// hotseat builds the static assets of the Hotseat Network exhibit: the
// per-seat dashboard pages, the QR codes that link to them, and the
// laser-cut plate sheets those codes are engraved on.
//
// Usage:
//
//	hotseat build
//	hotseat pages --watch
//	hotseat plates pdf
//
// See --help for all available options.
package main

// main is the entry point for hotseat.
func main() {
	Execute()
}
