// package tasks implements multi-step library operations: demo seeding, search import and bulk export.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunebox/internal/library"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/services"
	"github.com/desertthunder/tunebox/internal/shared"
	"golang.org/x/sync/errgroup"
)

// Demo library contents.
const (
	DemoPlaylistName        = "Chill Vibes"
	DemoPlaylistDescription = "A collection of relaxing music for studying and working"
	DefaultSearchQuery      = "lofi music"
	DefaultSearchMax        = 5
)

// DemoVideos are added, in order, by [Seeder.SeedDemo].
var DemoVideos = []string{"jfKfPfyJRdk", "5qap5aO4i9A"}

// Library is the subset of [library.Service] the tasks depend on.
type Library interface {
	AddSongFromURL(ctx context.Context, rawURL string) (*models.Song, error)
	SaveMetadata(ctx context.Context, meta models.VideoMetadata) (*models.Song, bool, error)
	GetPlaylist(ctx context.Context, ref string) (*models.Playlist, error)
	CreatePlaylistWithDetails(ctx context.Context, name, description, cover string) (*models.Playlist, error)
	AddToPlaylist(ctx context.Context, ref, videoID string) (library.AddResult, error)
	ListPlaylists(ctx context.Context) ([]models.PlaylistSummary, error)
	PlaylistSongs(ctx context.Context, ref string) (*models.Playlist, []*models.Song, error)
}

// SongOutcome is the result of adding one video.
type SongOutcome struct {
	VideoID string
	Song    *models.Song // nil when Error is set
	Error   error
}

// SeedResult contains the outcome of [Seeder.SeedDemo].
type SeedResult struct {
	Songs           []SongOutcome    // In [DemoVideos] order
	Playlist        *models.Playlist // nil when no song could be added
	PlaylistCreated bool
}

// Added returns the songs that were saved.
func (r *SeedResult) Added() []*models.Song {
	songs := make([]*models.Song, 0, len(r.Songs))
	for _, o := range r.Songs {
		if o.Song != nil {
			songs = append(songs, o.Song)
		}
	}
	return songs
}

// ImportResult contains the outcome of [Seeder.ImportFromSearch].
type ImportResult struct {
	Query    string
	Found    int
	Created  []*models.Song
	Existing []*models.Song
	Failed   []SongOutcome
}

// Seeder populates the library.
type Seeder struct {
	library  Library
	searcher services.Searcher
	logger   *log.Logger
	workers  int
}

// NewSeeder creates a Seeder. searcher may be nil when only [Seeder.SeedDemo] is used.
func NewSeeder(lib Library, searcher services.Searcher, logger *log.Logger) *Seeder {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Seeder{
		library:  lib,
		searcher: searcher,
		logger:   shared.WithLogger(logger, "task", "seed"),
		workers:  2,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// SeedDemo adds [DemoVideos] and creates the demo playlist containing them when no playlist of that name exists.
//
// Songs that cannot be added are reported in the result, not as an error. The error is non-nil only when
// no song could be added or a playlist operation failed.
func (s *Seeder) SeedDemo(ctx context.Context, progress chan<- ProgressUpdate) (*SeedResult, error) {
	total := len(DemoVideos)
	result := &SeedResult{Songs: make([]SongOutcome, total)}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, videoID := range DemoVideos {
		g.Go(func() error {
			song, err := s.library.AddSongFromURL(ctx, shared.WatchURL(videoID))
			result.Songs[i] = SongOutcome{VideoID: videoID, Song: song, Error: err}
			if err != nil {
				s.logger.Warn("demo song not added", "video_id", videoID, "error", err)
			}
			sendProgress(progress, addSongUpdate(i+1, total, videoID, song, err))
			return nil
		})
	}
	_ = g.Wait()

	added := result.Added()
	if len(added) == 0 {
		return result, fmt.Errorf("%w: no demo songs could be added", shared.ErrFetchFailed)
	}

	playlist, err := s.library.GetPlaylist(ctx, DemoPlaylistName)
	switch {
	case err == nil:
		result.Playlist = playlist
		sendProgress(progress, createPlaylistUpdate(1, 1, playlist, false))
		return result, nil
	case !errors.Is(err, shared.ErrPlaylistNotFound):
		return result, fmt.Errorf("failed to look up demo playlist: %w", err)
	}

	if _, err := s.library.CreatePlaylistWithDetails(ctx, DemoPlaylistName, DemoPlaylistDescription, ""); err != nil {
		return result, fmt.Errorf("failed to create demo playlist: %w", err)
	}
	for _, song := range added {
		if _, err := s.library.AddToPlaylist(ctx, DemoPlaylistName, song.YouTubeID()); err != nil {
			return result, fmt.Errorf("failed to add %s to demo playlist: %w", song.YouTubeID(), err)
		}
	}

	playlist, err = s.library.GetPlaylist(ctx, DemoPlaylistName)
	if err != nil {
		return result, err
	}
	result.Playlist = playlist
	result.PlaylistCreated = true
	s.logger.Info("demo playlist created", "playlist", playlist.ID(), "songs", playlist.Len())
	sendProgress(progress, createPlaylistUpdate(1, 1, playlist, true))
	return result, nil
}

// ImportFromSearch saves up to maxResults search hits for query that are not in the library yet.
//
// An empty query uses [DefaultSearchQuery]; a non-positive maxResults uses [DefaultSearchMax].
// Search failures are returned; per-song save failures are reported in the result.
func (s *Seeder) ImportFromSearch(ctx context.Context, progress chan<- ProgressUpdate, query string, maxResults int) (*ImportResult, error) {
	if s.searcher == nil {
		return nil, shared.ErrNotConfigured
	}
	if query == "" {
		query = DefaultSearchQuery
	}
	if maxResults <= 0 {
		maxResults = DefaultSearchMax
	}

	sendProgress(progress, searchSongsUpdate(query, -1))
	hits, err := s.searcher.Search(ctx, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	sendProgress(progress, searchSongsUpdate(query, len(hits)))

	result := &ImportResult{Query: query, Found: len(hits)}
	for i, hit := range hits {
		song, created, err := s.library.SaveMetadata(ctx, hit.Metadata())
		if err != nil {
			s.logger.Warn("search result not saved", "video_id", hit.VideoID, "error", err)
			result.Failed = append(result.Failed, SongOutcome{VideoID: hit.VideoID, Error: err})
			continue
		}
		if created {
			result.Created = append(result.Created, song)
		} else {
			result.Existing = append(result.Existing, song)
		}
		sendProgress(progress, importSongUpdate(i+1, len(hits), hit, created))
	}

	s.logger.Info("search import finished", "query", query, "created", len(result.Created), "existing", len(result.Existing))
	return result, nil
}
