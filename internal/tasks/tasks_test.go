package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tunebox/internal/library"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/repositories"
	"github.com/desertthunder/tunebox/internal/shared"
	tu "github.com/desertthunder/tunebox/internal/testing"
)

func newTestLibrary(t *testing.T, videos ...models.VideoMetadata) (*library.Service, *tu.MockResolver) {
	t.Helper()
	db := tu.NewTestDatabase(t)
	resolver := tu.NewMockResolver(videos...)
	svc := library.NewService(repositories.NewSongRepository(db), repositories.NewPlaylistRepository(db), resolver, nil)
	return svc, resolver
}

func demoVideos() []models.VideoMetadata {
	return []models.VideoMetadata{
		tu.Video("jfKfPfyJRdk", "lofi hip hop radio", "P0D"),
		tu.Video("5qap5aO4i9A", "lofi beats", "PT0M0S"),
	}
}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	close(ch)
	var updates []ProgressUpdate
	for u := range ch {
		updates = append(updates, u)
	}
	return updates
}

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()

	t.Run("adds songs and creates playlist", func(t *testing.T) {
		lib, _ := newTestLibrary(t, demoVideos()...)
		progress := make(chan ProgressUpdate, 10)

		result, err := NewSeeder(lib, nil, nil).SeedDemo(ctx, progress)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.PlaylistCreated {
			t.Error("expected playlist to be created")
		}
		if len(result.Added()) != 2 {
			t.Fatalf("expected 2 songs, got %d", len(result.Added()))
		}

		playlist, songs, err := lib.PlaylistSongs(ctx, DemoPlaylistName)
		if err != nil {
			t.Fatalf("expected demo playlist, got %v", err)
		}
		if playlist.Description() != DemoPlaylistDescription {
			t.Errorf("expected description %q, got %q", DemoPlaylistDescription, playlist.Description())
		}
		if len(songs) != 2 || songs[0].YouTubeID() != "jfKfPfyJRdk" || songs[1].YouTubeID() != "5qap5aO4i9A" {
			t.Errorf("expected demo songs in order, got %v", playlist.SongIDs())
		}

		updates := drain(progress)
		if len(updates) != 3 {
			t.Fatalf("expected 3 progress updates, got %d", len(updates))
		}
		last := updates[len(updates)-1]
		if last.Phase != CreatePlaylist || !strings.Contains(last.Message, "Playlist created: Chill Vibes") {
			t.Errorf("unexpected final update %+v", last)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		lib, resolver := newTestLibrary(t, demoVideos()...)
		seeder := NewSeeder(lib, nil, nil)

		if _, err := seeder.SeedDemo(ctx, nil); err != nil {
			t.Fatalf("first seed failed: %v", err)
		}
		result, err := seeder.SeedDemo(ctx, nil)
		if err != nil {
			t.Fatalf("second seed failed: %v", err)
		}

		if result.PlaylistCreated {
			t.Error("expected existing playlist to be kept")
		}
		if result.Playlist.Len() != 2 {
			t.Errorf("expected 2 entries, got %d", result.Playlist.Len())
		}
		if resolver.TotalCalls() != 2 {
			t.Errorf("expected 2 metadata fetches, got %d", resolver.TotalCalls())
		}
		playlists, _ := lib.ListPlaylists(ctx)
		if len(playlists) != 1 {
			t.Errorf("expected 1 playlist, got %d", len(playlists))
		}
	})

	t.Run("records failed songs", func(t *testing.T) {
		lib, _ := newTestLibrary(t, demoVideos()[0])

		result, err := NewSeeder(lib, nil, nil).SeedDemo(ctx, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !errors.Is(result.Songs[1].Error, shared.ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed for second song, got %v", result.Songs[1].Error)
		}
		if result.Playlist.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", result.Playlist.Len())
		}
	})

	t.Run("fails when nothing resolves", func(t *testing.T) {
		lib, _ := newTestLibrary(t)

		result, err := NewSeeder(lib, nil, nil).SeedDemo(ctx, nil)
		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed, got %v", err)
		}
		if result.Playlist != nil {
			t.Error("expected no playlist")
		}
		if _, err := lib.GetPlaylist(ctx, DemoPlaylistName); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected playlist not to be created, got %v", err)
		}
	})
}

func TestImportFromSearch(t *testing.T) {
	ctx := context.Background()

	hits := []models.SearchResult{
		{VideoID: "a", Title: "First", Channel: "Chan", Duration: "4:13", ISODuration: "PT4M13S"},
		{VideoID: "b", Title: "Second", Channel: "Chan"},
		{VideoID: "c", Title: "Third", Channel: "Chan", ISODuration: "PT1M"},
	}

	t.Run("inserts new songs with raw durations", func(t *testing.T) {
		lib, resolver := newTestLibrary(t)
		searcher := &tu.MockSearcher{Results: hits}
		progress := make(chan ProgressUpdate, 10)

		result, err := NewSeeder(lib, searcher, nil).ImportFromSearch(ctx, progress, "", 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if searcher.Queries[0] != DefaultSearchQuery {
			t.Errorf("expected default query, got %q", searcher.Queries[0])
		}
		if len(result.Created) != 2 {
			t.Fatalf("expected 2 created, got %d", len(result.Created))
		}
		if result.Created[0].Duration() != "PT4M13S" {
			t.Errorf("expected ISO duration, got %s", result.Created[0].Duration())
		}
		if result.Created[1].Duration() != shared.ZeroDuration {
			t.Errorf("expected %s for unknown duration, got %s", shared.ZeroDuration, result.Created[1].Duration())
		}
		if resolver.TotalCalls() != 0 {
			t.Errorf("expected no metadata lookups, got %d", resolver.TotalCalls())
		}

		updates := drain(progress)
		if len(updates) != 4 || updates[0].Phase != SearchSongs || updates[3].Phase != ImportSongs {
			t.Errorf("unexpected updates %+v", updates)
		}
	})

	t.Run("keeps existing songs", func(t *testing.T) {
		lib, _ := newTestLibrary(t, tu.Video("a", "Saved", "PT2M"))
		if _, err := lib.GetOrCreateSong(ctx, "a"); err != nil {
			t.Fatal(err)
		}

		result, err := NewSeeder(lib, &tu.MockSearcher{Results: hits}, nil).ImportFromSearch(ctx, nil, "lofi", 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Existing) != 1 || result.Existing[0].Title() != "Saved" {
			t.Errorf("expected saved song untouched, got %+v", result.Existing)
		}
		if len(result.Created) != 2 {
			t.Errorf("expected 2 created, got %d", len(result.Created))
		}
	})

	t.Run("search failure", func(t *testing.T) {
		lib, _ := newTestLibrary(t)
		searcher := &tu.MockSearcher{Err: &shared.UpstreamError{Status: 403, Message: "quota exceeded"}}

		_, err := NewSeeder(lib, searcher, nil).ImportFromSearch(ctx, nil, "lofi", 5)
		if shared.ErrorKind(err) != shared.KindUpstream {
			t.Errorf("expected upstream error, got %v", err)
		}
	})

	t.Run("without searcher", func(t *testing.T) {
		lib, _ := newTestLibrary(t)
		if _, err := NewSeeder(lib, nil, nil).ImportFromSearch(ctx, nil, "lofi", 5); !errors.Is(err, shared.ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
	})
}

func TestProgressUpdate_NonBlocking(t *testing.T) {
	lib, _ := newTestLibrary(t, demoVideos()...)

	// unbuffered and never read
	progress := make(chan ProgressUpdate)

	done := make(chan error)
	go func() {
		_, err := NewSeeder(lib, nil, nil).SeedDemo(context.Background(), progress)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("SeedDemo() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("SeedDemo() should not block on progress sends")
	}
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		AddSongs:       "add_songs",
		CreatePlaylist: "create_playlist",
		SearchSongs:    "search_songs",
		ImportSongs:    "import_songs",
		FetchPlaylists: "fetch_playlists",
		ExportPlaylist: "export_playlist",
		Phase(99):      "",
	}
	for phase, want := range tests {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(phase), got, want)
		}
	}
}
