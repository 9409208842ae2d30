// Package tasks implements the job tracker core on top of the record store partitions.
//
// # Tracker
//
// [Tracker] is the only entry point the CLI, HTTP API and TUI use. Every user-scoped call takes
// a [models.Session] naming the active user; there is no process-wide current user.
//
//  1. Duplicate resolution: [Tracker.FindDuplicate] matches a candidate to the user's record
//     with the same normalized link (see [shared.NormalizeURL]).
//
//  2. [Tracker.Upsert]: validates the candidate, then resolves and writes inside one store
//     transaction while holding a per-user lock. Concurrent upserts of the same new link
//     therefore yield a single record.
//
//  3. [Tracker.Search]: scan, filter, sort and window over the user's records. Ordering is
//     updatedAt desc, applicationDate desc, id asc.
//
//  4. Bulk operations: [Tracker.ExportView], [Tracker.Export], [Tracker.DeleteAllForUser],
//     [Tracker.ClearWithBackup] (backup first, abort on failure) and [Tracker.Reindex].
//
// # Import
//
// [Tracker.Import] scrapes a list of links through a worker pool throttled by a
// [rate.Limiter] and upserts each candidate.
//
// # Progress Reporting
//
// Long-running operations report [ProgressUpdate] values over an optional channel.
// Updates use select with default to prevent blocking.
package tasks
