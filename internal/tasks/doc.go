// Package tasks runs long-running catalog operations with progress reporting.
//
// # Bulk import
//
// [Importer.Import] loads a [Manifest] of channels, series and videos into the catalog:
//
//  1. Channels and series are created.
//  2. Videos are created by a bounded worker pool throttled by a rate limiter.
//  3. Each video is linked to the containers it names.
//
// Identical names are allowed; the id allocator hands out suffixed ids. A failed item is
// recorded in the [ImportResult] and does not stop the batch.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends never block: an update
// is dropped when the channel is full.
package tasks
