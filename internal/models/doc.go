// Package models defines domain entities and persistence interfaces for the tunebox song library.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): plain structs crossing the service and transport boundaries
//   - [VideoMetadata] : normalized video details from the Data API or oEmbed
//   - [SearchResult] : one search hit with an optional display duration
//   - [SongSummary] : listing row with a display-formatted duration
//   - [PlaylistSummary] : navigation row for playlist lists
//
// 2. Persistent Entities: database-backed models with accessors and validation
//   - [Song] : a saved video, unique by YouTube video identifier
//   - [Playlist] : a uniquely named, ordered list of [PlaylistEntry] song references
//
// All persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
