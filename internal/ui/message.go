package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsFetched MsgKind = iota
	MsgSongsFetched
	MsgFavoriteToggled
	MsgProgressUpdate
	MsgSeedComplete
)

type playlistsFetched struct {
	playlists []models.PlaylistSummary
	err       error
}

type songsFetched struct {
	songs []models.SongSummary
	err   error
}

type favoriteToggled struct {
	videoID  string
	favorite bool
	err      error
}

type seedComplete struct {
	result *tasks.SeedResult
	err    error
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(playlists []models.PlaylistSummary, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsFetched{playlists, err}}
}

// songsFetchedMsg is the constructor for [MsgSongsFetched]
func songsFetchedMsg(songs []models.SongSummary, err error) Msg {
	return Msg{kind: MsgSongsFetched, data: songsFetched{songs, err}}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(videoID string, favorite bool, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: favoriteToggled{videoID, favorite, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// seedCompleteMsg is the constructor for [MsgSeedComplete]
func seedCompleteMsg(result *tasks.SeedResult, err error) Msg {
	return Msg{kind: MsgSeedComplete, data: seedComplete{result, err}}
}
