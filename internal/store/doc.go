// Package store archives generated testcases in SQLite.
//
// The archive is append-only:
//   - testcases: one row per testcase, keyed by its content hash
//   - fragments: the ordered fragments of each testcase
//
// Writes are idempotent on the testcase ID, so archiving the same testcase
// twice is a no-op. Every listing is ordered by seq ASC, id ASC COLLATE
// BINARY, never by wall time.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//   - a single open connection
//
// Testcase IDs come from testcase.Hash; the modules column holds the
// canonical JSON of the module requests.
package store
