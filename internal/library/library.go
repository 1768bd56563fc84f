package library

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/services"
	"github.com/desertthunder/tunebox/internal/shared"
	"golang.org/x/sync/singleflight"
)

// SongStore is the song persistence used by [Service]; see [repositories.SongRepository].
type SongStore interface {
	Create(song *models.Song) error
	Get(id string) (*models.Song, error)
	GetByVideoID(videoID string) (*models.Song, error)
	Update(song *models.Song) error
	Delete(id string) error
	List(criteria map[string]any) ([]*models.Song, error)
}

// PlaylistStore is the playlist persistence used by [Service]; see [repositories.PlaylistRepository].
type PlaylistStore interface {
	Create(playlist *models.Playlist) error
	Get(id string) (*models.Playlist, error)
	Find(ref string) (*models.Playlist, error)
	ExistsByName(name string) (bool, error)
	Update(playlist *models.Playlist) error
	Delete(id string) error
	List(criteria map[string]any) ([]*models.Playlist, error)
	ContainingSong(songID string) ([]string, error)
}

// Service implements the library operations.
type Service struct {
	songs     SongStore
	playlists PlaylistStore
	resolver  services.MetadataResolver
	logger    *log.Logger
	inflight  singleflight.Group
}

// NewService creates a library service. A nil logger falls back to [shared.NewLogger].
func NewService(songs SongStore, playlists PlaylistStore, resolver services.MetadataResolver, logger *log.Logger) *Service {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Service{
		songs:     songs,
		playlists: playlists,
		resolver:  resolver,
		logger:    shared.WithLogger(logger, "service", "library"),
	}
}

// SongFilter narrows [Service.ListSongs]. Playlist and FavoritesOnly combine.
type SongFilter struct {
	Playlist      string // record id or name; empty means the whole library
	FavoritesOnly bool
	Limit         int // defaults to [repositories.DefaultSongLimit]
}

// AddResult reports the outcome of [Service.AddToPlaylist].
//
// A song that was already present yields Added=false with a Notice and no write.
type AddResult struct {
	Added  bool   `json:"added"`
	Notice string `json:"notice,omitempty"`
}

// PlaylistFailure records a playlist that could not be cleaned during [Service.DeleteSong].
type PlaylistFailure struct {
	Playlist string `json:"playlist"`
	Error    string `json:"error"`
}

// DeleteResult reports the outcome of [Service.DeleteSong].
type DeleteResult struct {
	Deleted bool              `json:"deleted"`
	Cleaned []string          `json:"cleaned"`
	Failed  []PlaylistFailure `json:"failed,omitempty"`
}
