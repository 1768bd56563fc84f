package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tunebox/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// playlistItem wraps [models.PlaylistSummary] to implement [list.Item].
type playlistItem struct {
	playlist models.PlaylistSummary
}

func (i playlistItem) FilterValue() string { return i.playlist.PlaylistName }
func (i playlistItem) Title() string       { return i.playlist.PlaylistName }
func (i playlistItem) Description() string {
	if i.playlist.SongCount == 1 {
		return "1 song"
	}
	return fmt.Sprintf("%d songs", i.playlist.SongCount)
}

// songItem wraps [models.SongSummary] to implement [list.Item].
type songItem struct {
	song models.SongSummary
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string {
	if i.song.IsFavorite {
		return i.song.Title + " ★"
	}
	return i.song.Title
}
func (i songItem) Description() string {
	desc := i.song.Channel
	if i.song.Duration != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.Duration)
	}
	return desc
}
