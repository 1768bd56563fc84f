package formatter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
	th "github.com/desertthunder/tunebox/internal/testing"
)

func newTestExport(cover string) *Export {
	one := models.NewSong(1, th.Video("aaa", "Song One", "PT3M"))
	one.SetID("song-1")
	one.SetFavorite(true)

	two := models.NewSong(2, th.Video("bbb", "Song, Two", "PT1H0M30S"))
	two.SetID("song-2")

	playlist := models.NewPlaylist(1, "Test Playlist", "A test playlist", cover)
	playlist.SetID("pl-1")
	playlist.SetEntries([]models.PlaylistEntry{models.EntryFor(one), models.EntryFor(two)})

	return &Export{Playlist: playlist, Songs: []*models.Song{one, two}}
}

func TestExporters(t *testing.T) {
	t.Run("TotalDuration", func(t *testing.T) {
		export := newTestExport("")
		if got := export.TotalDuration(); got != time.Hour+3*time.Minute+30*time.Second {
			t.Errorf("expected 1h3m30s, got %v", got)
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(newTestExport(""))
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Position,Video ID,Title,Channel,Duration,URL,Favorite") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,aaa,Song One,Channel aaa,3:00,https://www.youtube.com/watch?v=aaa,true") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, `"Song, Two"`) {
			t.Errorf("CSV should quote titles with commas, got: %s", output)
		}
		if !strings.Contains(output, "1:00:30") {
			t.Errorf("CSV missing display duration, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(newTestExport(""), "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Test Playlist",
				"**Description**: A test playlist",
				"**Songs**: 2",
				"**Length**: 1:03:30",
				"1. [Song One](https://www.youtube.com/watch?v=aaa) - Channel aaa [3:00] ★",
				"2. [Song, Two](https://www.youtube.com/watch?v=bbb) - Channel bbb [1:00:30]\n",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got: %s", want, output)
				}
			}
			if strings.Contains(output, "![Cover]") {
				t.Error("Markdown should not include cover without image")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, _ := ExportToMarkdown(newTestExport(""), "cover.jpg")
			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Errorf("Markdown missing cover image reference")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(newTestExport(""))
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Playlist: Test Playlist\nDescription: A test playlist\nSongs: 2\n\n") {
			t.Errorf("unexpected header, got: %s", output)
		}
		if !strings.Contains(output, "1. Channel aaa - Song One (3:00)") {
			t.Errorf("missing first song, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(newTestExport(""))
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded struct {
			Playlist struct {
				PlaylistName string `json:"playlist_name"`
				Songs        []struct {
					Song string `json:"song"`
				} `json:"songs"`
			} `json:"playlist"`
			Songs []struct {
				YouTubeID string `json:"youtube_id"`
				Duration  string `json:"duration"`
			} `json:"songs"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Playlist.PlaylistName != "Test Playlist" || len(decoded.Playlist.Songs) != 2 {
			t.Errorf("unexpected playlist %+v", decoded.Playlist)
		}
		if len(decoded.Songs) != 2 || decoded.Songs[0].Duration != "PT3M" {
			t.Errorf("expected full records with ISO durations, got %+v", decoded.Songs)
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(newTestExport("https://example.com/c.jpg").Playlist)
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{`"playlist_name": "Test Playlist"`, `"song_count": 2`, `"cover_image": "https://example.com/c.jpg"`} {
			if !strings.Contains(output, want) {
				t.Errorf("metadata missing %s, got: %s", want, output)
			}
		}
		if strings.Contains(output, `"youtube_id"`) {
			t.Error("metadata should not include songs")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg-bytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(data) != "jpeg-bytes" {
			t.Errorf("expected image bytes, got %q", data)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil || !strings.Contains(err.Error(), "status 404") {
			t.Errorf("expected status error, got %v", err)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		dir := t.TempDir()
		res, err := WriteCSVExport(newTestExport(""), filepath.Join(dir, "out"))
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		th.AssertFileExists(t, res.SongsFile)
		th.AssertFileExists(t, res.MetadataFile)
		if !strings.HasSuffix(res.SongsFile, "out_songs.csv") {
			t.Errorf("unexpected songs file %s", res.SongsFile)
		}

		t.Run("WithDefaultPath", func(t *testing.T) {
			wd := th.MustGetwd(t)
			th.MustChdir(t, t.TempDir())
			defer th.MustChdir(t, wd)

			res, err := WriteCSVExport(newTestExport(""), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			if res.SongsFile != "pl-1_songs.csv" || res.MetadataFile != "pl-1_metadata.json" {
				t.Errorf("unexpected default paths %+v", res)
			}
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("downloads cover image", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("jpeg-bytes"))
			}))
			defer server.Close()

			dir := filepath.Join(t.TempDir(), "md")
			res, err := WriteMarkdownExport(newTestExport(server.URL+"/cover.jpg"), dir)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			th.AssertDirExists(t, dir)
			th.AssertFileExists(t, filepath.Join(dir, "cover.jpg"))
			if len(res.Files) != 2 {
				t.Errorf("expected cover and README, got %v", res.Files)
			}
			readme := th.MustReadFile(t, filepath.Join(dir, "README.md"))
			if !strings.Contains(readme, "![Cover](cover.jpg)") {
				t.Errorf("README missing cover reference: %s", readme)
			}
		})

		t.Run("cover download failure still writes README", func(t *testing.T) {
			server := httptest.NewServer(http.NotFoundHandler())
			defer server.Close()

			dir := filepath.Join(t.TempDir(), "md")
			res, err := WriteMarkdownExport(newTestExport(server.URL), dir)
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}
			if res.CoverImage != "" || len(res.Files) != 1 {
				t.Errorf("expected README only, got %+v", res)
			}
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.txt")
		got, err := WriteTextExport(newTestExport(""), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		if !strings.Contains(th.MustReadFile(t, path), "Playlist: Test Playlist") {
			t.Error("text export missing header")
		}
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pl.json")
		if _, err := WriteJSONExport(newTestExport(""), path); err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}
		if !json.Valid([]byte(th.MustReadFile(t, path))) {
			t.Error("expected valid JSON file")
		}
	})

	t.Run("Write", func(t *testing.T) {
		tc := []struct {
			format string
			files  []string
		}{
			{FormatJSON, []string{"pl-1.json"}},
			{FormatCSV, []string{"pl-1_songs.csv", "pl-1_metadata.json"}},
			{FormatMarkdown, []string{filepath.Join("pl-1", "README.md")}},
			{FormatText, []string{"pl-1_songs.txt"}},
		}

		for _, tt := range tc {
			t.Run(tt.format, func(t *testing.T) {
				dir := t.TempDir()
				files, err := Write(newTestExport(""), tt.format, dir)
				if err != nil {
					t.Fatalf("Write failed: %v", err)
				}
				if len(files) != len(tt.files) {
					t.Fatalf("expected %d files, got %v", len(tt.files), files)
				}
				for i, f := range tt.files {
					if files[i] != filepath.Join(dir, f) {
						t.Errorf("expected %s, got %s", filepath.Join(dir, f), files[i])
					}
					th.AssertFileExists(t, files[i])
				}
			})
		}

		t.Run("unsupported format", func(t *testing.T) {
			if _, err := Write(newTestExport(""), "xml", t.TempDir()); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("unwritable directory", func(t *testing.T) {
			missing := filepath.Join(t.TempDir(), "missing", "deeper")
			if _, err := Write(newTestExport(""), FormatText, missing); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export_manifest.json")
		m := &Manifest{
			ExportedAt: time.Now().UTC(),
			Format:     FormatCSV,
			Total:      2,
			Successful: 1,
			Failed:     1,
			Playlists: []ManifestEntry{
				{ID: "pl-1", Name: "One", Songs: 2, Files: []string{"pl-1_songs.csv"}},
				{ID: "pl-2", Name: "Two", Error: "boom"},
			},
		}
		if err := WriteManifest(m, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}

		data, _ := os.ReadFile(path)
		var decoded Manifest
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid manifest: %v", err)
		}
		if decoded.Failed != 1 || decoded.Playlists[1].Error != "boom" {
			t.Errorf("unexpected manifest %+v", decoded)
		}
	})
}
