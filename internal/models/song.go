package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tunebox/internal/shared"
)

// VideoMetadata is the normalized description of a YouTube video produced by a metadata provider.
//
// Duration is ISO-8601 (PT#H#M#S) as returned upstream.
type VideoMetadata struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	Channel     string `json:"channel"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// SearchResult is a single search hit.
//
// Duration is display-formatted and empty when the duration lookup failed.
// ISODuration keeps the raw value for callers that persist results.
type SearchResult struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail"`
	Channel     string `json:"channel"`
	Description string `json:"description"`
	Duration    string `json:"duration,omitempty"`
	ISODuration string `json:"-"`
}

// Metadata converts a search hit into [VideoMetadata], using [shared.ZeroDuration] when the duration is unknown.
func (r SearchResult) Metadata() VideoMetadata {
	duration := r.ISODuration
	if duration == "" {
		duration = shared.ZeroDuration
	}
	return VideoMetadata{
		VideoID:     r.VideoID,
		Title:       r.Title,
		Thumbnail:   r.Thumbnail,
		Channel:     r.Channel,
		Description: r.Description,
		Duration:    duration,
	}
}

// Song is a saved YouTube video. At most one Song exists per video identifier.
type Song struct {
	base
	youtubeID   string
	title       string
	channel     string
	thumbnail   string
	description string
	duration    string
	favorite    bool
}

// NewSong creates a Song from provider metadata. Duration is kept in ISO-8601 form.
func NewSong(sequence int, meta VideoMetadata) *Song {
	return &Song{
		base:        newBase(sequence),
		youtubeID:   meta.VideoID,
		title:       meta.Title,
		channel:     meta.Channel,
		thumbnail:   meta.Thumbnail,
		description: meta.Description,
		duration:    meta.Duration,
	}
}

func (s *Song) YouTubeID() string   { return s.youtubeID }
func (s *Song) Title() string       { return s.title }
func (s *Song) Channel() string     { return s.channel }
func (s *Song) Thumbnail() string   { return s.thumbnail }
func (s *Song) Description() string { return s.description }
func (s *Song) Duration() string    { return s.duration }
func (s *Song) IsFavorite() bool    { return s.favorite }

// DisplayDuration is the stored duration formatted by [shared.FormatDuration].
func (s *Song) DisplayDuration() string {
	return shared.FormatDuration(s.duration)
}

func (s *Song) SetFavorite(favorite bool) { s.favorite = favorite }

// ToggleFavorite flips the favorite flag and returns the new value.
func (s *Song) ToggleFavorite() bool {
	s.favorite = !s.favorite
	return s.favorite
}

// Validate checks required fields.
func (s *Song) Validate() error {
	if strings.TrimSpace(s.youtubeID) == "" {
		return fmt.Errorf("%w: song youtube_id is required", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(s.title) == "" {
		return fmt.Errorf("%w: song title is required", shared.ErrInvalidInput)
	}
	return nil
}

// Summary returns the listing form of the Song with a display-formatted duration.
func (s *Song) Summary() SongSummary {
	return SongSummary{
		Name:       s.id,
		Title:      s.title,
		YouTubeID:  s.youtubeID,
		Thumbnail:  s.thumbnail,
		Channel:    s.channel,
		Duration:   s.DisplayDuration(),
		IsFavorite: s.favorite,
	}
}

// MarshalJSON encodes the full record with the stored ISO-8601 duration.
func (s *Song) MarshalJSON() ([]byte, error) {
	return json.Marshal(songRecord{
		Name:        s.id,
		YouTubeID:   s.youtubeID,
		Title:       s.title,
		Channel:     s.channel,
		Thumbnail:   s.thumbnail,
		Description: s.description,
		Duration:    s.duration,
		IsFavorite:  s.favorite,
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
	})
}

type songRecord struct {
	Name        string    `json:"name"`
	YouTubeID   string    `json:"youtube_id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	Thumbnail   string    `json:"thumbnail"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	IsFavorite  bool      `json:"is_favorite"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SongSummary is the listing row returned by library queries. Duration is display-formatted.
type SongSummary struct {
	Name       string `json:"name"`
	Title      string `json:"title"`
	YouTubeID  string `json:"youtube_id"`
	Thumbnail  string `json:"thumbnail"`
	Channel    string `json:"channel"`
	Duration   string `json:"duration"`
	IsFavorite bool   `json:"is_favorite"`
}
