package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tunebox/internal/library"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/tasks"
)

type fakeLibrary struct {
	playlists   []models.PlaylistSummary
	songs       []models.SongSummary
	err         error
	filters     []library.SongFilter
	toggled     []string
	favoriteNow bool
}

func (f *fakeLibrary) ListPlaylists(ctx context.Context) ([]models.PlaylistSummary, error) {
	return f.playlists, f.err
}

func (f *fakeLibrary) ListSongs(ctx context.Context, filter library.SongFilter) ([]models.SongSummary, error) {
	f.filters = append(f.filters, filter)
	return f.songs, nil
}

func (f *fakeLibrary) ToggleFavorite(ctx context.Context, videoID string) (bool, error) {
	f.toggled = append(f.toggled, videoID)
	f.favoriteNow = !f.favoriteNow
	return f.favoriteNow, nil
}

type fakeSeeder struct {
	result *tasks.SeedResult
	err    error
}

func (f *fakeSeeder) SeedDemo(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.SeedResult, error) {
	progress <- tasks.ProgressUpdate{Phase: tasks.AddSongs, Step: 1, Total: 2, Message: "[1/2] ✓ First"}
	return f.result, f.err
}

func newTestLibrary() *fakeLibrary {
	return &fakeLibrary{
		playlists: []models.PlaylistSummary{{Name: "pl-1", PlaylistName: "Chill", SongCount: 2}},
		songs: []models.SongSummary{
			{Name: "s1", Title: "First", YouTubeID: "abc", Channel: "Chan", Duration: "4:13"},
			{Name: "s2", Title: "Second", YouTubeID: "def", Channel: "Chan", IsFavorite: true},
		},
	}
}

// run executes cmd and feeds the resulting message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := m.Update(cmd())
	return next
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel(t *testing.T) {
	ctx := context.Background()

	t.Run("loads playlists on init", func(t *testing.T) {
		m := NewModel(ctx, newTestLibrary(), nil)
		run(t, m, m.Init())

		if len(m.playlistList.Items()) != 1 {
			t.Fatalf("expected 1 playlist, got %d", len(m.playlistList.Items()))
		}
		item := m.playlistList.Items()[0].(playlistItem)
		if item.Title() != "Chill" || item.Description() != "2 songs" {
			t.Errorf("unexpected item %q %q", item.Title(), item.Description())
		}
	})

	t.Run("fetch error is shown", func(t *testing.T) {
		lib := newTestLibrary()
		lib.err = errors.New("disk gone")
		m := NewModel(ctx, lib, nil)
		run(t, m, m.Init())

		if !strings.Contains(m.View(), "Error: Internal error") {
			t.Errorf("expected masked error view, got %q", m.View())
		}
		if _, cmd := m.Update(keyPress("q")); cmd == nil {
			t.Error("expected quit command")
		}
	})

	t.Run("opens playlist songs", func(t *testing.T) {
		lib := newTestLibrary()
		m := NewModel(ctx, lib, nil)
		run(t, m, m.Init())

		_, cmd := m.Update(keyPress("enter"))
		run(t, m, cmd)

		if m.ViewState() != SongListView {
			t.Fatalf("expected song list view, got %d", m.ViewState())
		}
		if lib.filters[0].Playlist != "pl-1" {
			t.Errorf("expected playlist filter by record id, got %+v", lib.filters[0])
		}
		if m.songList.Title != "Songs in 'Chill'" {
			t.Errorf("unexpected title %q", m.songList.Title)
		}

		second := m.songList.Items()[1].(songItem)
		if second.Title() != "Second ★" {
			t.Errorf("expected favorite marker, got %q", second.Title())
		}
		first := m.songList.Items()[0].(songItem)
		if first.Description() != "Chan • 4:13" {
			t.Errorf("unexpected description %q", first.Description())
		}
	})

	t.Run("favorites view", func(t *testing.T) {
		lib := newTestLibrary()
		m := NewModel(ctx, lib, nil)
		run(t, m, m.Init())

		_, cmd := m.Update(keyPress("F"))
		run(t, m, cmd)

		if !lib.filters[0].FavoritesOnly || lib.filters[0].Playlist != "" {
			t.Errorf("expected favorites filter, got %+v", lib.filters[0])
		}
	})

	t.Run("toggles favorite and reloads", func(t *testing.T) {
		lib := newTestLibrary()
		m := NewModel(ctx, lib, nil)
		run(t, m, m.Init())
		_, cmd := m.Update(keyPress("a"))
		run(t, m, cmd)

		_, cmd = m.Update(keyPress("f"))
		reload := run(t, m, cmd)

		if len(lib.toggled) != 1 || lib.toggled[0] != "abc" {
			t.Errorf("expected toggle of abc, got %v", lib.toggled)
		}
		if m.status != "Added to favorites" {
			t.Errorf("unexpected status %q", m.status)
		}
		run(t, m, reload)
		if len(lib.filters) != 2 || lib.filters[1] != lib.filters[0] {
			t.Errorf("expected reload with same filter, got %+v", lib.filters)
		}
	})

	t.Run("esc returns to playlists", func(t *testing.T) {
		m := NewModel(ctx, newTestLibrary(), nil)
		run(t, m, m.Init())
		_, cmd := m.Update(keyPress("a"))
		run(t, m, cmd)

		_, cmd = m.Update(keyPress("esc"))
		if m.ViewState() != PlaylistListView {
			t.Errorf("expected playlist view, got %d", m.ViewState())
		}
		if cmd == nil {
			t.Error("expected playlists reload")
		}
	})

	t.Run("seed without seeder", func(t *testing.T) {
		m := NewModel(ctx, newTestLibrary(), nil)
		m.Update(keyPress("s"))

		if m.ViewState() != PlaylistListView || m.status != "Seeding is not available" {
			t.Errorf("expected status message, got %q", m.status)
		}
	})

	t.Run("seed reports progress and result", func(t *testing.T) {
		song := models.NewSong(1, models.VideoMetadata{VideoID: "jfKfPfyJRdk", Title: "lofi radio", Duration: "PT0M0S"})
		playlist := models.NewPlaylist(1, tasks.DemoPlaylistName, tasks.DemoPlaylistDescription, "")
		playlist.Append(models.EntryFor(song))
		seeder := &fakeSeeder{result: &tasks.SeedResult{
			Songs: []tasks.SongOutcome{
				{VideoID: "jfKfPfyJRdk", Song: song},
				{VideoID: "5qap5aO4i9A", Error: errors.New("boom")},
			},
			Playlist:        playlist,
			PlaylistCreated: true,
		}}

		m := NewModel(ctx, newTestLibrary(), seeder)
		_, cmd := m.Update(keyPress("s"))
		if m.ViewState() != SeedView {
			t.Fatalf("expected seed view, got %d", m.ViewState())
		}

		cmd = run(t, m, cmd)
		if m.progress.Message != "[1/2] ✓ First" {
			t.Errorf("expected progress update, got %+v", m.progress)
		}
		if !strings.Contains(m.View(), "Adding songs (1/2)") {
			t.Errorf("unexpected seed view %q", m.View())
		}

		run(t, m, cmd)
		if m.ViewState() != ResultView {
			t.Fatalf("expected result view, got %d", m.ViewState())
		}
		view := m.View()
		for _, want := range []string{"Demo library ready", "lofi radio (0:00)", "5qap5aO4i9A", "Playlist 'Chill Vibes' created (1 songs)"} {
			if !strings.Contains(view, want) {
				t.Errorf("result view missing %q: %s", want, view)
			}
		}
	})
}
