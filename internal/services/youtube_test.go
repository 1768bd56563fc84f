package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/tunebox/internal/shared"
)

const testAPIKey = "test-key"

func newTestYouTubeService(t *testing.T, handler http.Handler) (*YouTubeService, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logs := &bytes.Buffer{}
	svc, err := NewYouTubeService(context.Background(), YouTubeOpts{
		APIKey:   testAPIKey,
		Endpoint: server.URL + "/",
		Timeout:  2 * time.Second,
		Logger:   shared.NewLogger(logs),
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc, logs
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func videoItem(id, title, duration string) map[string]any {
	return map[string]any{
		"id": id,
		"snippet": map[string]any{
			"title":        title,
			"channelTitle": "Channel " + id,
			"description":  "Description " + id,
			"thumbnails": map[string]any{
				"default": map[string]any{"url": "https://i.ytimg.com/vi/" + id + "/default.jpg"},
				"high":    map[string]any{"url": "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"},
			},
		},
		"contentDetails": map[string]any{"duration": duration},
	}
}

func searchItem(id, title string) map[string]any {
	return map[string]any{
		"id": map[string]any{"kind": "youtube#video", "videoId": id},
		"snippet": map[string]any{
			"title":        title,
			"channelTitle": "Channel " + id,
			"description":  "Description " + id,
			"thumbnails": map[string]any{
				"high": map[string]any{"url": "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"},
			},
		},
	}
}

func apiError(code int, message string) map[string]any {
	return map[string]any{"error": map[string]any{"code": code, "message": message}}
}

func TestYouTubeService(t *testing.T) {
	t.Run("NewYouTubeService", func(t *testing.T) {
		t.Run("without api key is unconfigured", func(t *testing.T) {
			svc, err := NewYouTubeService(context.Background(), YouTubeOpts{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.Configured() {
				t.Error("expected service without api key to be unconfigured")
			}
			if svc.timeout != DefaultRequestTimeout {
				t.Errorf("expected default timeout %v, got %v", DefaultRequestTimeout, svc.timeout)
			}
		})

		t.Run("with api key is configured", func(t *testing.T) {
			svc, _ := newTestYouTubeService(t, http.NotFoundHandler())
			if !svc.Configured() {
				t.Error("expected service with api key to be configured")
			}
		})
	})

	t.Run("VideoDetails", func(t *testing.T) {
		t.Run("returns metadata with raw duration", func(t *testing.T) {
			svc, _ := newTestYouTubeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/youtube/v3/videos" {
					t.Errorf("expected path /youtube/v3/videos, got %s", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("key") != testAPIKey {
					t.Errorf("expected api key %s, got %s", testAPIKey, q.Get("key"))
				}
				if q.Get("id") != "abc" {
					t.Errorf("expected id abc, got %s", q.Get("id"))
				}
				if got := q["part"]; !slices.Equal(got, []string{"snippet", "contentDetails"}) {
					t.Errorf("expected part [snippet contentDetails], got %v", got)
				}
				writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{videoItem("abc", "Lofi", "PT1H2M3S")}})
			}))

			meta, err := svc.VideoDetails(context.Background(), "abc")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if meta.Title != "Lofi" {
				t.Errorf("expected title Lofi, got %s", meta.Title)
			}
			if meta.Duration != "PT1H2M3S" {
				t.Errorf("expected raw duration PT1H2M3S, got %s", meta.Duration)
			}
			if meta.Thumbnail != "https://i.ytimg.com/vi/abc/hqdefault.jpg" {
				t.Errorf("expected high thumbnail, got %s", meta.Thumbnail)
			}
			if meta.Channel != "Channel abc" {
				t.Errorf("expected channel 'Channel abc', got %s", meta.Channel)
			}
		})

		t.Run("not configured", func(t *testing.T) {
			svc, _ := NewYouTubeService(context.Background(), YouTubeOpts{})
			if _, err := svc.VideoDetails(context.Background(), "abc"); !errors.Is(err, shared.ErrNotConfigured) {
				t.Errorf("expected ErrNotConfigured, got %v", err)
			}
		})

		t.Run("not found", func(t *testing.T) {
			svc, _ := newTestYouTubeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{}})
			}))

			if _, err := svc.VideoDetails(context.Background(), "missing"); !errors.Is(err, shared.ErrVideoNotFound) {
				t.Errorf("expected ErrVideoNotFound, got %v", err)
			}
		})

		t.Run("bad request includes upstream message", func(t *testing.T) {
			svc, _ := newTestYouTubeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusBadRequest, apiError(400, "API key not valid."))
			}))

			_, err := svc.VideoDetails(context.Background(), "abc")
			var upstream *shared.UpstreamError
			if !errors.As(err, &upstream) {
				t.Fatalf("expected UpstreamError, got %v", err)
			}
			if upstream.Status != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", upstream.Status)
			}
			msg := shared.UserMessage(err)
			if !strings.HasPrefix(msg, "Invalid YouTube API key or request") {
				t.Errorf("unexpected message %q", msg)
			}
			if !strings.HasSuffix(msg, "Details: API key not valid.") {
				t.Errorf("expected upstream details in %q", msg)
			}
		})

		t.Run("other status", func(t *testing.T) {
			svc, _ := newTestYouTubeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusForbidden, apiError(403, "quota exceeded"))
			}))

			_, err := svc.VideoDetails(context.Background(), "abc")
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if err.Error() != "YouTube API error: quota exceeded" {
				t.Errorf("unexpected message %q", err.Error())
			}
			if shared.ErrorKind(err) != shared.KindUpstream {
				t.Errorf("expected upstream kind, got %v", shared.ErrorKind(err))
			}
		})

		t.Run("timeout", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
			}))
			defer server.Close()

			svc, err := NewYouTubeService(context.Background(), YouTubeOpts{
				APIKey:   testAPIKey,
				Endpoint: server.URL + "/",
				Timeout:  20 * time.Millisecond,
			})
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}

			if _, err := svc.VideoDetails(context.Background(), "abc"); !errors.Is(err, shared.ErrTimeout) {
				t.Errorf("expected ErrTimeout, got %v", err)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("searches music category then batches durations", func(t *testing.T) {
			var videoCalls atomic.Int32
			svc, _ := newTestYouTubeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				switch r.URL.Path {
				case "/youtube/v3/search":
					if q.Get("q") != "lofi" {
						t.Errorf("expected q lofi, got %s", q.Get("q"))
					}
					if q.Get("type") != "video" {
						t.Errorf("expected type video, got %s", q.Get("type"))
					}
					if q.Get("videoCategoryId") != MusicCategoryID {
						t.Errorf("expected videoCategoryId %s, got %s", MusicCategoryID, q.Get("videoCategoryId"))
					}
					if q.Get("maxResults") != "2" {
						t.Errorf("expected maxResults 2, got %s", q.Get("maxResults"))
					}
					writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{searchItem("a", "A"), searchItem("b", "B")}})
				case "/youtube/v3/videos":
					videoCalls.Add(1)
					if got := q["id"]; !slices.Equal(got, []string{"a", "b"}) {
						t.Errorf("expected ids [a b] in one call, got %v", got)
					}
					writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{
						map[string]any{"id": "a", "contentDetails": map[string]any{"duration": "PT4M13S"}},
						map[string]any{"id": "b", "contentDetails": map[string]any{"duration": "PT1H0M1S"}},
					}})
				default:
					t.Errorf("unexpected path %s", r.URL.Path)
				}
			}))

			results, err := svc.Search(context.Background(), "lofi", 2)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(results) != 2 {
				t.Fatalf("expected 2 results, got %d", len(results))
			}
			if videoCalls.Load() != 1 {
				t.Errorf("expected 1 duration call, got %d", videoCalls.Load())
			}
			if results[0].Duration != "4:13" || results[1].Duration != "1:00:01" {
				t.Errorf("unexpected durations %q %q", results[0].Duration, results[1].Duration)
			}
			if results[0].ISODuration != "PT4M13S" {
				t.Errorf("expected raw duration kept, got %q", results[0].ISODuration)
			}
			if results[0].Thumbnail != "https://i.ytimg.com/vi/a/hqdefault.jpg" {
				t.Errorf("unexpected thumbnail %s", results[0].Thumbnail)
			}
		})

		t.Run("duration failure is swallowed", func(t *testing.T) {
			svc, logs := newTestYouTubeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/youtube/v3/search" {
					writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{searchItem("a", "A")}})
					return
				}
				writeJSON(t, w, http.StatusInternalServerError, apiError(500, "backend error"))
			}))

			results, err := svc.Search(context.Background(), "lofi", 5)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(results) != 1 {
				t.Fatalf("expected 1 result, got %d", len(results))
			}
			if results[0].Duration != "" {
				t.Errorf("expected empty duration, got %q", results[0].Duration)
			}
			if !strings.Contains(logs.String(), "duration lookup failed") {
				t.Errorf("expected warning to be logged, got %q", logs.String())
			}
		})

		t.Run("search failure is returned", func(t *testing.T) {
			svc, _ := newTestYouTubeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, http.StatusBadRequest, apiError(400, "bad q"))
			}))

			_, err := svc.Search(context.Background(), "lofi", 5)
			var upstream *shared.UpstreamError
			if !errors.As(err, &upstream) || upstream.Status != http.StatusBadRequest {
				t.Errorf("expected 400 UpstreamError, got %v", err)
			}
		})

		t.Run("not configured is a hard error", func(t *testing.T) {
			svc, _ := NewYouTubeService(context.Background(), YouTubeOpts{})
			_, err := svc.Search(context.Background(), "lofi", 5)
			if !errors.Is(err, shared.ErrNotConfigured) {
				t.Errorf("expected ErrNotConfigured, got %v", err)
			}
			if !strings.Contains(err.Error(), "api_key") {
				t.Errorf("expected configuration hint, got %q", err.Error())
			}
		})

		t.Run("empty query", func(t *testing.T) {
			svc, _ := newTestYouTubeService(t, http.NotFoundHandler())
			if _, err := svc.Search(context.Background(), "  ", 5); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("clamps max results", func(t *testing.T) {
			tc := []struct {
				requested int
				want      string
			}{
				{requested: 0, want: "10"},
				{requested: 500, want: "50"},
			}
			for _, tt := range tc {
				svc, _ := newTestYouTubeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if got := r.URL.Query().Get("maxResults"); got != tt.want {
						t.Errorf("requested %d: expected maxResults %s, got %s", tt.requested, tt.want, got)
					}
					writeJSON(t, w, http.StatusOK, map[string]any{"items": []any{}})
				}))
				if _, err := svc.Search(context.Background(), "lofi", tt.requested); err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			}
		})
	})
}
