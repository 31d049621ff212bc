// Package model defines the data structures shared by the hotseat generators.
//
// This package contains the following main types:
//   - Artifact: a file written by a generator, with its digest
//   - Run: the result of one invocation, consumed by report writers and
//     the history database
//
// It also owns the seat naming conventions (seat<N>.html, seat_<N>_qr.png)
// so every generator agrees on file names.
package model
