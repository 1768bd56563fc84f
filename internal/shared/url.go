package shared

import (
	"net/url"
	"strings"
)

// ExtractVideoID returns the video identifier from a YouTube watch, embed, or youtu.be URL.
//
// Any other host or path shape reports false; callers treat that as bad input.
func ExtractVideoID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	path := strings.Trim(u.Path, "/")

	var id string
	switch host {
	case "youtu.be":
		id, _, _ = strings.Cut(path, "/")
	case "youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com":
		switch {
		case path == "watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(path, "embed/"):
			id, _, _ = strings.Cut(strings.TrimPrefix(path, "embed/"), "/")
		}
	}

	if id == "" {
		return "", false
	}
	return id, true
}

// WatchURL returns the canonical watch URL for a video identifier.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}
