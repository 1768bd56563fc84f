// Package web assembles the view data for the music player page.
//
// A [Builder] combines the playlist sidebar, the optional selected playlist and the song
// listing into a single [Page]. The HTTP server serves it as JSON at /music-player.
//
// # Filters
//
//   - Playlist restricts songs to the playlist's entries. A playlist with no entries yields no songs.
//   - Favorites restricts songs to favorited ones and combines with Playlist.
//
// Both views list songs most recently modified first with display-formatted durations.
package web

import (
	"context"
	"strings"

	"github.com/desertthunder/tunebox/internal/library"
	"github.com/desertthunder/tunebox/internal/models"
)

// Library is the subset of [library.Service] used to build pages.
type Library interface {
	GetPlaylist(ctx context.Context, ref string) (*models.Playlist, error)
	ListPlaylists(ctx context.Context) ([]models.PlaylistSummary, error)
	ListSongs(ctx context.Context, filter library.SongFilter) ([]models.SongSummary, error)
}

// Params selects the page view.
type Params struct {
	Playlist  string // record id or name
	Favorites bool
}

// Page is the music player view data.
type Page struct {
	Playlist  *models.Playlist         `json:"playlist"`
	Playlists []models.PlaylistSummary `json:"playlists"`
	Songs     []models.SongSummary     `json:"songs"`
	Favorites bool                     `json:"favorites"`
}

// Builder builds [Page] values from a [Library].
type Builder struct {
	lib Library
}

// NewBuilder creates a page builder.
func NewBuilder(lib Library) *Builder {
	return &Builder{lib: lib}
}

// Build loads the playlist sidebar and the songs matching params.
//
// An unknown playlist fails with [shared.ErrPlaylistNotFound].
func (b *Builder) Build(ctx context.Context, params Params) (*Page, error) {
	page := &Page{Favorites: params.Favorites}

	filter := library.SongFilter{FavoritesOnly: params.Favorites}
	if ref := strings.TrimSpace(params.Playlist); ref != "" {
		playlist, err := b.lib.GetPlaylist(ctx, ref)
		if err != nil {
			return nil, err
		}
		page.Playlist = playlist
		filter.Playlist = playlist.ID()
	}

	playlists, err := b.lib.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	page.Playlists = playlists

	songs, err := b.lib.ListSongs(ctx, filter)
	if err != nil {
		return nil, err
	}
	page.Songs = songs

	return page, nil
}
