// package library implements the song and playlist operations shared by the HTTP API, the CLI and the TUI.
//
// A [Service] composes a song store, a playlist store and a [services.MetadataResolver]. Songs are keyed by
// YouTube video id and created on first reference (get-or-create); playlists hold ordered song references.
// Concurrent get-or-create calls for the same video are coalesced so metadata is fetched at most once.
package library
