// Package store provides SQLite-backed storage for the run ledger.
//
// The ledger is append-only:
//   - Runs: one summary per driven run (algorithm, size, seed, speed,
//     tick count, final sortedness, trace digest)
//   - Replays: one record per replay verification of a stored run
//
// Frames are never stored. A run is reproducible from its algorithm, size
// and seed, and its digest pins the exact frame sequence.
//
// # Ordering
//
// Every row carries a seq assigned by SQLite on insert. Listing queries
// order by seq ASC, id ASC COLLATE BINARY, never by wall-clock time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Replays must reference an existing run
package store
