// Package tasks runs multi-step library operations with real-time progress reporting.
//
// # Core Operations
//
//  1. [Seeder.SeedDemo] : Populate an empty library
//     - Adds two well-known lofi streams through add-song-from-URL
//     - Creates the "Chill Vibes" playlist with both songs when it does not exist
//
//  2. [Seeder.ImportFromSearch] : Save search hits as songs
//     - Searches the Data API for a query
//     - Inserts hits that are not saved yet, keeping the raw ISO-8601 duration
//
//  3. [Exporter.BulkExport] : Write many playlists to disk
//     - Worker pool with a shared rate limit
//     - Writes export_manifest.json summarizing every playlist
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking; a nil channel disables reporting.
package tasks
