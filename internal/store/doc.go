// Package store provides a SQLite-backed ledger of bench runs.
//
// Every executed (or dry-run) invocation is appended to the runs table with:
//   - id: a UUIDv7, time-sortable for humans
//   - seq: a logical counter, the only ordering key
//   - fingerprint: SHA-256 over the canonical scenario and token list, so
//     repeated runs of an identical configuration share it
//   - the captured exit code, stdout and stderr, verbatim
//
// All queries order by seq ASC, id ASC COLLATE BINARY.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
