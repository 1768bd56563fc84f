// YouTube Data API v3 [DetailsProvider] and [Searcher] implementation
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// MusicCategoryID is the YouTube video category searched by [YouTubeService.Search].
	MusicCategoryID = "10"
	// DefaultSearchResults is used when a search asks for zero or fewer results.
	DefaultSearchResults = 10
	// MaxSearchResults is the largest page the Data API returns.
	MaxSearchResults = 50
	// DefaultRequestTimeout bounds each Data API call.
	DefaultRequestTimeout = 10 * time.Second
)

// YouTubeOpts configures [NewYouTubeService].
type YouTubeOpts struct {
	APIKey            string
	Endpoint          string // overrides the Data API base URL; used by tests
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	Logger            *log.Logger
}

// YouTubeService implements [DetailsProvider] and [Searcher] with the YouTube Data API.
type YouTubeService struct {
	client  *youtube.Service
	limiter *rate.Limiter
	timeout time.Duration
	logger  *log.Logger
}

// NewYouTubeService creates a Data API client. An empty API key yields an unconfigured service.
func NewYouTubeService(ctx context.Context, opts YouTubeOpts) (*YouTubeService, error) {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultRequestTimeout
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	svc := &YouTubeService{
		limiter: rate.NewLimiter(limit, opts.Burst),
		timeout: opts.Timeout,
		logger:  shared.WithLogger(opts.Logger, "service", "youtube"),
	}

	if strings.TrimSpace(opts.APIKey) == "" {
		return svc, nil
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	client, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	svc.client = client
	return svc, nil
}

// Configured reports whether an API key was supplied.
func (s *YouTubeService) Configured() bool {
	return s.client != nil
}

// VideoDetails fetches snippet and content details for one video.
//
// Returns [shared.ErrNotConfigured] without an API key and [shared.ErrVideoNotFound] when the video does not exist.
func (s *YouTubeService) VideoDetails(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	if !s.Configured() {
		return nil, shared.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	resp, err := s.client.Videos.List([]string{"snippet", "contentDetails"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, upstreamError("error getting video details", err)
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, videoID)
	}

	item := resp.Items[0]
	meta := &models.VideoMetadata{VideoID: videoID}
	if item.Snippet != nil {
		meta.Title = item.Snippet.Title
		meta.Channel = item.Snippet.ChannelTitle
		meta.Description = item.Snippet.Description
		meta.Thumbnail = highThumbnail(item.Snippet.Thumbnails)
	}
	if item.ContentDetails != nil {
		meta.Duration = item.ContentDetails.Duration
	}
	return meta, nil
}

// Search finds music videos matching query, then fetches all durations in one batch call.
//
// A failed duration lookup is logged and the results are returned without durations.
func (s *YouTubeService) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: add 'api_key' under [credentials.youtube] in config.toml", shared.ErrNotConfigured)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrMissingArgument)
	}

	switch {
	case maxResults <= 0:
		maxResults = DefaultSearchResults
	case maxResults > MaxSearchResults:
		maxResults = MaxSearchResults
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(searchCtx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	resp, err := s.client.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		VideoCategoryId(MusicCategoryID).
		MaxResults(int64(maxResults)).
		Context(searchCtx).
		Do()
	if err != nil {
		return nil, upstreamError("error searching YouTube", err)
	}

	results := make([]models.SearchResult, 0, len(resp.Items))
	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		results = append(results, models.SearchResult{
			VideoID:     item.Id.VideoId,
			Title:       item.Snippet.Title,
			Thumbnail:   highThumbnail(item.Snippet.Thumbnails),
			Channel:     item.Snippet.ChannelTitle,
			Description: item.Snippet.Description,
		})
		ids = append(ids, item.Id.VideoId)
	}

	if len(ids) == 0 {
		return results, nil
	}

	durations, err := s.durations(ctx, ids)
	if err != nil {
		s.logger.Warn("duration lookup failed, returning results without durations", "query", query, "error", err)
		return results, nil
	}

	for i := range results {
		if iso, ok := durations[results[i].VideoID]; ok {
			results[i].ISODuration = iso
			results[i].Duration = shared.FormatDuration(iso)
		}
	}
	return results, nil
}

func (s *YouTubeService) durations(ctx context.Context, ids []string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.client.Videos.List([]string{"contentDetails"}).Id(ids...).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	durations := make(map[string]string, len(resp.Items))
	for _, item := range resp.Items {
		if item.ContentDetails != nil {
			durations[item.Id] = item.ContentDetails.Duration
		}
	}
	return durations, nil
}

// upstreamError converts a client error into a [*shared.UpstreamError] with a displayable message.
func upstreamError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		detail := apiErr.Message
		if apiErr.Code == http.StatusBadRequest {
			msg := "invalid YouTube API key or request. Please check your API key configuration."
			if detail != "" {
				msg += " Details: " + detail
			}
			return &shared.UpstreamError{Status: apiErr.Code, Message: msg, Err: err}
		}
		if detail == "" {
			detail = fmt.Sprintf("status %d", apiErr.Code)
		}
		return &shared.UpstreamError{Status: apiErr.Code, Message: "YouTube API error: " + detail, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", shared.ErrTimeout, op, err)
	}
	return &shared.UpstreamError{Message: op + ": " + err.Error(), Err: err}
}

func highThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
