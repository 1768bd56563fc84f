package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
)

// CreatePlaylist creates an empty playlist and returns its record id.
func (s *Service) CreatePlaylist(ctx context.Context, name string) (string, error) {
	playlist, err := s.CreatePlaylistWithDetails(ctx, name, "", "")
	if err != nil {
		return "", err
	}
	return playlist.ID(), nil
}

// CreatePlaylistWithDetails creates an empty playlist with a description and cover image.
//
// Fails with [shared.ErrPlaylistExists] when the name is taken.
func (s *Service) CreatePlaylistWithDetails(ctx context.Context, name, description, cover string) (*models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist_name", shared.ErrMissingArgument)
	}

	exists, err := s.playlists.ExistsByName(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrPlaylistExists
	}

	playlist := models.NewPlaylist(0, name, description, cover)
	if err := s.playlists.Create(playlist); err != nil {
		if shared.IsUniqueViolation(err) {
			return nil, shared.ErrPlaylistExists
		}
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	s.logger.Info("playlist created", "name", name, "id", playlist.ID())
	return playlist, nil
}

// ListPlaylists returns every playlist, most recently modified first.
func (s *Service) ListPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	playlists, err := s.playlists.List(nil)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.PlaylistSummary, 0, len(playlists))
	for _, p := range playlists {
		summaries = append(summaries, p.Summary())
	}
	return summaries, nil
}

// GetPlaylist resolves ref as a record id or a name.
func (s *Service) GetPlaylist(ctx context.Context, ref string) (*models.Playlist, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: playlist_name", shared.ErrMissingArgument)
	}
	return s.playlists.Find(ref)
}

// PlaylistSongs returns the playlist for ref and its songs in playlist order.
//
// Entries whose song no longer exists are skipped.
func (s *Service) PlaylistSongs(ctx context.Context, ref string) (*models.Playlist, []*models.Song, error) {
	playlist, err := s.GetPlaylist(ctx, ref)
	if err != nil {
		return nil, nil, err
	}

	ids := playlist.SongIDs()
	if len(ids) == 0 {
		return playlist, []*models.Song{}, nil
	}

	found, err := s.songs.List(map[string]any{"ids": ids, "limit": len(ids)})
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[string]*models.Song, len(found))
	for _, song := range found {
		byID[song.ID()] = song
	}

	songs := make([]*models.Song, 0, len(ids))
	for _, id := range ids {
		if song, ok := byID[id]; ok {
			songs = append(songs, song)
		}
	}
	return playlist, songs, nil
}

// AddToPlaylist appends the song for videoID to the playlist, creating the song first if needed.
//
// A song already present yields a notice and no write.
func (s *Service) AddToPlaylist(ctx context.Context, ref, videoID string) (AddResult, error) {
	playlist, err := s.GetPlaylist(ctx, ref)
	if err != nil {
		return AddResult{}, err
	}

	song, err := s.GetOrCreateSong(ctx, videoID)
	if err != nil {
		return AddResult{}, err
	}

	if !playlist.Append(models.EntryFor(song)) {
		return AddResult{Notice: shared.UserMessage(shared.ErrAlreadyInPlaylist)}, nil
	}

	if err := s.playlists.Update(playlist); err != nil {
		return AddResult{}, fmt.Errorf("failed to save playlist: %w", err)
	}
	return AddResult{Added: true}, nil
}

// RemoveFromPlaylist drops the song for videoID from the playlist.
//
// Returns false without writing when the song is unknown or not in the playlist.
func (s *Service) RemoveFromPlaylist(ctx context.Context, ref, videoID string) (bool, error) {
	playlist, err := s.GetPlaylist(ctx, ref)
	if err != nil {
		return false, err
	}

	song, err := s.songs.GetByVideoID(strings.TrimSpace(videoID))
	if errors.Is(err, shared.ErrSongNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if playlist.Remove(song.ID()) == 0 {
		return false, nil
	}

	if err := s.playlists.Update(playlist); err != nil {
		return false, fmt.Errorf("failed to save playlist: %w", err)
	}
	return true, nil
}

// DeletePlaylist removes the playlist for ref and its entries. Songs stay in the library.
func (s *Service) DeletePlaylist(ctx context.Context, ref string) (*models.Playlist, error) {
	playlist, err := s.GetPlaylist(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := s.playlists.Delete(playlist.ID()); err != nil {
		return nil, err
	}

	s.logger.Info("playlist deleted", "name", playlist.Name(), "id", playlist.ID())
	return playlist, nil
}
