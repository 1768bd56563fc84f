// oEmbed [FallbackProvider] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
)

const (
	// DefaultOEmbedURL is the public YouTube oEmbed endpoint.
	DefaultOEmbedURL = "https://www.youtube.com/oembed"
	// OEmbedDescription is stored as the description of songs materialized through oEmbed.
	OEmbedDescription = "Added via oEmbed"
	// OEmbedRequestTimeout bounds each oEmbed call.
	OEmbedRequestTimeout = 10 * time.Second

	oembedUnknownTitle  = "Unknown Title"
	oembedUnknownArtist = "Unknown Artist"
)

// OEmbedResponse is the subset of the oEmbed document used to build metadata.
type OEmbedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// OEmbedService implements [FallbackProvider] using YouTube's oEmbed endpoint.
type OEmbedService struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewOEmbedService creates an oEmbed client. Empty baseURL and nil client use defaults.
func NewOEmbedService(baseURL string, client *http.Client, logger *log.Logger) *OEmbedService {
	if baseURL == "" {
		baseURL = DefaultOEmbedURL
	}
	if client == nil {
		client = &http.Client{Timeout: OEmbedRequestTimeout}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &OEmbedService{
		baseURL:    baseURL,
		httpClient: client,
		logger:     shared.WithLogger(logger, "service", "oembed"),
	}
}

// Lookup fetches title, author and thumbnail for videoID.
//
// Description and duration are placeholders. Any failure is logged and reported as nil.
func (o *OEmbedService) Lookup(ctx context.Context, videoID string) *models.VideoMetadata {
	resp, err := o.fetch(ctx, videoID)
	if err != nil {
		o.logger.Error("oEmbed lookup failed", "video_id", videoID, "error", err)
		return nil
	}

	meta := &models.VideoMetadata{
		VideoID:     videoID,
		Title:       resp.Title,
		Thumbnail:   resp.ThumbnailURL,
		Channel:     resp.AuthorName,
		Description: OEmbedDescription,
		Duration:    shared.ZeroDuration,
	}
	if meta.Title == "" {
		meta.Title = oembedUnknownTitle
	}
	if meta.Channel == "" {
		meta.Channel = oembedUnknownArtist
	}
	return meta
}

func (o *OEmbedService) fetch(ctx context.Context, videoID string) (*OEmbedResponse, error) {
	params := url.Values{}
	params.Set("url", shared.WatchURL(videoID))
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("oEmbed error: status %d", resp.StatusCode)
	}

	var result OEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
