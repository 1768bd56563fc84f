package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
	"golang.org/x/sync/singleflight"
)

// SongFetchTimeout bounds a shared metadata fetch, which outlives any single caller's context.
const SongFetchTimeout = 30 * time.Second

// GetOrCreateSong returns the saved song for videoID, resolving metadata and inserting it when absent.
//
// Existing songs are returned unchanged. Concurrent calls for one id share a single metadata fetch;
// a lost insert race is resolved by re-reading the winner's row. Cancelling ctx abandons the wait
// without failing other callers of the same fetch.
func (s *Service) GetOrCreateSong(ctx context.Context, videoID string) (*models.Song, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, fmt.Errorf("%w: video_id", shared.ErrMissingArgument)
	}

	song, err := s.songs.GetByVideoID(videoID)
	if err == nil {
		return song, nil
	}
	if !errors.Is(err, shared.ErrSongNotFound) {
		return nil, fmt.Errorf("failed to look up song: %w", err)
	}

	ch := s.inflight.DoChan(videoID, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SongFetchTimeout)
		defer cancel()
		return s.createSong(fetchCtx, videoID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		// each caller gets its own copy so later mutations do not race
		return s.songs.GetByVideoID(videoID)
	}
	return res.Val.(*models.Song), nil
}

func (s *Service) createSong(ctx context.Context, videoID string) (*models.Song, error) {
	if song, err := s.songs.GetByVideoID(videoID); err == nil {
		return song, nil
	}

	meta, err := s.resolver.Resolve(ctx, videoID)
	if err != nil {
		s.logger.Error("metadata lookup failed", "video_id", videoID, "error", err)
		return nil, err
	}
	meta.VideoID = videoID

	song := models.NewSong(0, *meta)
	if err := s.songs.Create(song); err != nil {
		if shared.IsUniqueViolation(err) {
			return s.songs.GetByVideoID(videoID)
		}
		return nil, fmt.Errorf("failed to save song: %w", err)
	}

	s.logger.Info("song added", "video_id", videoID, "title", song.Title())
	return song, nil
}

// AddSongFromURL extracts the video id from rawURL and delegates to [Service.GetOrCreateSong].
func (s *Service) AddSongFromURL(ctx context.Context, rawURL string) (*models.Song, error) {
	videoID, ok := shared.ExtractVideoID(rawURL)
	if !ok {
		return nil, shared.ErrInvalidURL
	}
	return s.GetOrCreateSong(ctx, videoID)
}

// ToggleFavorite flips the favorite flag of the song for videoID and returns the new value.
//
// An unknown id is created first, so the first toggle of a new video favorites it.
func (s *Service) ToggleFavorite(ctx context.Context, videoID string) (bool, error) {
	song, err := s.GetOrCreateSong(ctx, videoID)
	if err != nil {
		return false, err
	}

	favorite := song.ToggleFavorite()
	if err := s.songs.Update(song); err != nil {
		return false, fmt.Errorf("failed to save favorite: %w", err)
	}
	return favorite, nil
}

// DeleteSong removes the song identified by ref (record id or video id) from every playlist, then deletes it.
//
// An unknown ref yields Deleted=false with no writes. A playlist that cannot be cleaned is recorded in
// [DeleteResult.Failed] and does not stop the deletion.
func (s *Service) DeleteSong(ctx context.Context, ref string) (DeleteResult, error) {
	result := DeleteResult{Cleaned: []string{}}

	song, err := s.findSong(ref)
	if errors.Is(err, shared.ErrSongNotFound) {
		return result, nil
	}
	if err != nil {
		return result, err
	}

	ids, err := s.playlists.ContainingSong(song.ID())
	if err != nil {
		return result, fmt.Errorf("failed to find playlists for song: %w", err)
	}

	for _, id := range ids {
		name, err := s.stripSong(id, song.ID())
		if err != nil {
			s.logger.Warn("failed to remove song from playlist", "playlist", id, "song", song.ID(), "error", err)
			result.Failed = append(result.Failed, PlaylistFailure{Playlist: id, Error: err.Error()})
			continue
		}
		result.Cleaned = append(result.Cleaned, name)
	}

	if err := s.songs.Delete(song.ID()); err != nil {
		return result, fmt.Errorf("failed to delete song: %w", err)
	}

	result.Deleted = true
	s.logger.Info("song deleted", "video_id", song.YouTubeID(), "playlists", len(result.Cleaned))
	return result, nil
}

func (s *Service) stripSong(playlistID, songID string) (string, error) {
	playlist, err := s.playlists.Get(playlistID)
	if err != nil {
		return "", err
	}
	if playlist.Remove(songID) == 0 {
		return playlist.Name(), nil
	}
	if err := s.playlists.Update(playlist); err != nil {
		return "", err
	}
	return playlist.Name(), nil
}

func (s *Service) findSong(ref string) (*models.Song, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, shared.ErrSongNotFound
	}
	song, err := s.songs.Get(ref)
	if err == nil {
		return song, nil
	}
	if !errors.Is(err, shared.ErrSongNotFound) {
		return nil, err
	}
	return s.songs.GetByVideoID(ref)
}

// GetSong returns the song for ref (record id or video id) without fetching metadata.
func (s *Service) GetSong(ctx context.Context, ref string) (*models.Song, error) {
	return s.findSong(ref)
}

// ListSongs returns library rows, most recently modified first, with display durations.
//
// A playlist filter with no entries returns an empty list without querying songs.
func (s *Service) ListSongs(ctx context.Context, filter SongFilter) ([]models.SongSummary, error) {
	criteria := map[string]any{
		"favorites": filter.FavoritesOnly,
		"limit":     filter.Limit,
	}

	if filter.Playlist != "" {
		playlist, err := s.playlists.Find(filter.Playlist)
		if err != nil {
			return nil, err
		}
		if playlist.Len() == 0 {
			return []models.SongSummary{}, nil
		}
		criteria["ids"] = playlist.SongIDs()
	}

	songs, err := s.songs.List(criteria)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.SongSummary, 0, len(songs))
	for _, song := range songs {
		summaries = append(summaries, song.Summary())
	}
	return summaries, nil
}

// SaveMetadata stores meta as a new song unless one already exists for its video id.
//
// No metadata lookup is made; created reports whether a row was inserted.
func (s *Service) SaveMetadata(ctx context.Context, meta models.VideoMetadata) (*models.Song, bool, error) {
	meta.VideoID = strings.TrimSpace(meta.VideoID)
	if meta.VideoID == "" {
		return nil, false, fmt.Errorf("%w: video_id", shared.ErrMissingArgument)
	}
	if meta.Duration == "" {
		meta.Duration = shared.ZeroDuration
	}

	if song, err := s.songs.GetByVideoID(meta.VideoID); err == nil {
		return song, false, nil
	} else if !errors.Is(err, shared.ErrSongNotFound) {
		return nil, false, fmt.Errorf("failed to look up song: %w", err)
	}

	song := models.NewSong(0, meta)
	if err := s.songs.Create(song); err != nil {
		if shared.IsUniqueViolation(err) {
			existing, err := s.songs.GetByVideoID(meta.VideoID)
			return existing, false, err
		}
		return nil, false, fmt.Errorf("failed to save song: %w", err)
	}
	return song, true, nil
}
