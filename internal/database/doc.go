// Package database provides SQLite-based storage for hotseat run history.
//
// Every command that writes files records a run and the SHA-256 digest of
// each artifact. The next run of the same command compares its digests with
// the last recorded one for the same path, which is how `hotseat history`
// shows that regenerating from an unchanged template is a no-op.
//
// The database is a single file in the XDG data directory, opened with
// modernc.org/sqlite (CGO-free) in WAL mode.
package database
