// Package repositories implements SQLite persistence for the song library.
//
// Key Implementations:
//   - [SongRepository] : songs keyed by record id and unique YouTube video id
//   - [PlaylistRepository] : uniquely named playlists with ordered playlist_songs rows
//
// Songs and playlists are hard deleted. Playlist entries reference songs without a foreign key,
// so callers deleting a song strip it from playlists first (see [PlaylistRepository.ContainingSong]).
//
// Sequence numbers provide stable ordering independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
