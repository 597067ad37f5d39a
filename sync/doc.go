// Package sync implements the value-synchronization engine: it reconciles a
// declarative set of rows against a lock-versioned data-table service using
// an update-first, create-fallback strategy.
//
// # Algorithm
//
// A run for one table proceeds through fixed phases:
//
//  1. Fetch current attribute lock versions and format every configured
//     attribute value into its wire representation, stamped with the
//     attribute's lock version.
//  2. Update phase: submit all formatted values in batches of at most
//     [tableapi.MaxBatchValues]. Per-item failures are classified: a
//     missing-value failure routes the item to the create phase, a
//     concurrency conflict makes it eligible for exactly one retry with
//     refreshed lock versions, anything else is terminal.
//  3. Create phase: submit the missing items in batches, refreshing lock
//     versions before each batch. An already-exists failure here is treated
//     as success so that re-running a completed sync is a no-op.
//
// Lock versions rotate on every successful mutation, so they are refetched
// before every mutation round and never cached across batches or phases.
// This refetch-before-mutate discipline is the only concurrency control the
// engine uses.
//
// The conflict retry is deliberately bounded to a single round: outcomes of
// the retry are final whatever they report, which caps a run at two update
// rounds per batch regardless of contention. For the same reason a retry
// that reports a missing value is counted as failed, not routed to create.
//
// # Results
//
// Every run produces a [Report] with updated/created/failed counts. The
// engine captures remote failures in the report rather than aborting, so a
// multi-table run can process remaining tables after one table fails; only
// the inability to fetch lock versions at the start is fatal for a table.
//
// Engines hold no shared mutable state, so independent tables may be synced
// concurrently by independent engines.
package sync
