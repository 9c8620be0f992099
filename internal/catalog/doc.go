// Package catalog is the data side of dirscroll: package records, the filters
// that select them, and the sources that answer windowed queries.
//
// Sources return a Snapshot for a (filter, limit) pair. A snapshot carries a
// Complete flag so callers can tell an authoritative result from one read while
// the backing file was still being written:
//   - JSONLSource reads a newline-delimited JSON catalog on every query
//   - SQLiteSource pushes filtering, ordering and the limit into SQLite
//   - Watcher signals when the catalog file changes on disk
package catalog
