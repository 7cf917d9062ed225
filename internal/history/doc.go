// Package history keeps a SQLite record of finished downloads.
//
// Every completed or failed item is appended by the download service through
// the Recorder interface. The schema is managed with embedded migrations.
package history
