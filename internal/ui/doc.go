// Package ui implements an interactive terminal library browser using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the saved library:
//  1. [PlaylistListView] : Browse playlists; open all songs or favorites
//  2. [SongListView] : Browse songs of the selection and toggle favorites
//  3. [SeedView] : Monitor real-time progress while the demo library is created
//  4. [ResultView] : Display the songs and playlist the seed produced
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the [tasks.Seeder], providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, f, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
