package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/tunebox/internal/shared"
)

func testMetadata(id string) VideoMetadata {
	return VideoMetadata{
		VideoID:     id,
		Title:       "Title " + id,
		Thumbnail:   "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg",
		Channel:     "Channel",
		Description: "Description",
		Duration:    "PT3M5S",
	}
}

func TestSong(t *testing.T) {
	t.Run("NewSong keeps ISO duration", func(t *testing.T) {
		song := NewSong(1, testMetadata("abc"))

		if song.Duration() != "PT3M5S" {
			t.Errorf("expected stored duration PT3M5S, got %s", song.Duration())
		}
		if song.DisplayDuration() != "3:05" {
			t.Errorf("expected display duration 3:05, got %s", song.DisplayDuration())
		}
		if song.IsFavorite() {
			t.Error("new songs should not be favorites")
		}
		if song.CreatedAt().IsZero() || song.UpdatedAt().IsZero() {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("ToggleFavorite", func(t *testing.T) {
		song := NewSong(1, testMetadata("abc"))
		if !song.ToggleFavorite() {
			t.Error("expected first toggle to favorite")
		}
		if song.ToggleFavorite() {
			t.Error("expected second toggle to unfavorite")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name    string
			meta    VideoMetadata
			wantErr bool
		}{
			{name: "valid", meta: testMetadata("abc")},
			{name: "missing id", meta: VideoMetadata{Title: "t"}, wantErr: true},
			{name: "missing title", meta: VideoMetadata{VideoID: "abc", Title: "  "}, wantErr: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				err := NewSong(0, tt.meta).Validate()
				if tt.wantErr && !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				if !tt.wantErr && err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			})
		}
	})

	t.Run("Summary and JSON", func(t *testing.T) {
		song := NewSong(1, testMetadata("abc"))
		song.SetID("song-1")
		song.SetFavorite(true)

		summary := song.Summary()
		if summary.Name != "song-1" || summary.Duration != "3:05" || !summary.IsFavorite {
			t.Errorf("unexpected summary %+v", summary)
		}

		data, err := json.Marshal(song)
		if err != nil {
			t.Fatalf("failed to marshal song: %v", err)
		}
		for _, want := range []string{`"name":"song-1"`, `"youtube_id":"abc"`, `"duration":"PT3M5S"`, `"is_favorite":true`} {
			if !strings.Contains(string(data), want) {
				t.Errorf("expected %s in %s", want, data)
			}
		}
	})
}

func TestSearchResultMetadata(t *testing.T) {
	r := SearchResult{VideoID: "abc", Title: "t", Duration: "3:05", ISODuration: "PT3M5S"}
	if got := r.Metadata().Duration; got != "PT3M5S" {
		t.Errorf("expected PT3M5S, got %s", got)
	}

	r.ISODuration = ""
	if got := r.Metadata().Duration; got != shared.ZeroDuration {
		t.Errorf("expected %s for unknown duration, got %s", shared.ZeroDuration, got)
	}
}

func TestPlaylist(t *testing.T) {
	t.Run("Append rejects duplicates", func(t *testing.T) {
		p := NewPlaylist(1, " Chill ", "", "")
		if p.Name() != "Chill" {
			t.Errorf("expected trimmed name Chill, got %q", p.Name())
		}

		if !p.Append(PlaylistEntry{SongID: "a"}) {
			t.Error("expected first append to succeed")
		}
		if p.Append(PlaylistEntry{SongID: "a"}) {
			t.Error("expected duplicate append to be rejected")
		}
		if p.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", p.Len())
		}
	})

	t.Run("Remove keeps order", func(t *testing.T) {
		p := NewPlaylist(1, "Mix", "", "")
		p.SetEntries([]PlaylistEntry{{SongID: "a"}, {SongID: "b"}, {SongID: "c"}})

		if removed := p.Remove("b"); removed != 1 {
			t.Errorf("expected 1 removal, got %d", removed)
		}
		if removed := p.Remove("zzz"); removed != 0 {
			t.Errorf("expected 0 removals, got %d", removed)
		}

		ids := p.SongIDs()
		if len(ids) != 2 || ids[0] != "a" || ids[1] != "c" {
			t.Errorf("expected [a c], got %v", ids)
		}
	})

	t.Run("Entries returns a copy", func(t *testing.T) {
		p := NewPlaylist(1, "Mix", "", "")
		p.Append(PlaylistEntry{SongID: "a"})

		entries := p.Entries()
		entries[0].SongID = "mutated"
		if !p.Contains("a") {
			t.Error("mutating Entries result should not change the playlist")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := NewPlaylist(1, "", "", "").Validate(); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty name, got %v", err)
		}

		p := NewPlaylist(1, "Mix", "", "")
		p.SetEntries([]PlaylistEntry{{SongID: "a"}, {SongID: "a"}})
		if err := p.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for duplicate entries, got %v", err)
		}
	})

	t.Run("JSON includes empty songs", func(t *testing.T) {
		p := NewPlaylist(1, "Mix", "desc", "cover.png")
		p.SetID("pl-1")

		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("failed to marshal playlist: %v", err)
		}
		for _, want := range []string{`"name":"pl-1"`, `"playlist_name":"Mix"`, `"cover_image":"cover.png"`, `"songs":[]`} {
			if !strings.Contains(string(data), want) {
				t.Errorf("expected %s in %s", want, data)
			}
		}
	})

	t.Run("EntryFor caches title and duration", func(t *testing.T) {
		song := NewSong(1, testMetadata("abc"))
		song.SetID("song-1")

		entry := EntryFor(song)
		if entry.SongID != "song-1" || entry.SongTitle != "Title abc" || entry.Duration != "PT3M5S" {
			t.Errorf("unexpected entry %+v", entry)
		}
	})
}
