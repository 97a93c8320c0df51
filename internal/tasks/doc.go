// Package tasks sequences a sync run: look up the submitting user, scrape the listing, store new songs, report.
//
// [SyncEngine.Run] walks the phases in order and stops at the first failure:
//
//  1. [LookupUser] : missing user (or a failed lookup) aborts with [shared.ErrUserNotFound]
//  2. [Scrape] : an unreachable site or an empty listing aborts with [shared.ErrNoSongs]
//  3. [Persist] : database errors are returned as-is and end the run
//  4. [Report] : the [SyncResult] carries the scraped and inserted counts
//
// Progress is emitted on an optional channel without blocking, see [ProgressUpdate].
package tasks
