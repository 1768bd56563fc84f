package tasks

import (
	"fmt"

	"github.com/desertthunder/tunebox/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	AddSongs Phase = iota
	CreatePlaylist
	SearchSongs
	ImportSongs
	FetchPlaylists
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case AddSongs:
		return "add_songs"
	case CreatePlaylist:
		return "create_playlist"
	case SearchSongs:
		return "search_songs"
	case ImportSongs:
		return "import_songs"
	case FetchPlaylists:
		return "fetch_playlists"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func addSongUpdate(step, total int, videoID string, song *models.Song, err error) ProgressUpdate {
	if err != nil {
		return ProgressUpdate{
			Phase:   AddSongs,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, videoID, err),
		}
	}
	return ProgressUpdate{
		Phase:   AddSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, song.Title()),
		Data:    song,
	}
}

func createPlaylistUpdate(step, total int, pl *models.Playlist, created bool) ProgressUpdate {
	message := fmt.Sprintf("Playlist exists: %s (ID: %s)", pl.Name(), pl.ID())
	if created {
		message = fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name(), pl.ID())
	}
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    pl,
	}
}

func searchSongsUpdate(query string, found int) ProgressUpdate {
	if found < 0 {
		return ProgressUpdate{
			Phase:   SearchSongs,
			Step:    0,
			Total:   1,
			Message: fmt.Sprintf("Searching YouTube for %q...", query),
		}
	}
	return ProgressUpdate{
		Phase:   SearchSongs,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d videos for %q", found, query),
	}
}

func importSongUpdate(step, total int, result models.SearchResult, created bool) ProgressUpdate {
	status := "exists"
	if created {
		status = "added"
	}
	return ProgressUpdate{
		Phase:   ImportSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s (%s)", step, total, result.Channel, result.Title, status),
	}
}

func fetchPlaylistsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d playlists", total),
	}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
