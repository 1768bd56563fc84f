package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
)

// Resolver implements [MetadataResolver]: Data API when configured, then oEmbed.
type Resolver struct {
	api      DetailsProvider
	fallback FallbackProvider
	logger   *log.Logger
}

// NewResolver composes the strategies. Either may be nil.
func NewResolver(api DetailsProvider, fallback FallbackProvider, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{api: api, fallback: fallback, logger: shared.WithLogger(logger, "service", "resolver")}
}

// Resolve returns metadata for videoID, or [shared.ErrFetchFailed] when no strategy yields any.
//
// A Data API failure of any kind falls through to oEmbed; neither call is repeated.
func (r *Resolver) Resolve(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	if r.api != nil && r.api.Configured() {
		meta, err := r.api.VideoDetails(ctx, videoID)
		if err == nil {
			return meta, nil
		}
		r.logger.Warn("data API lookup failed, trying oEmbed", "video_id", videoID, "error", err)
	}

	if r.fallback != nil {
		if meta := r.fallback.Lookup(ctx, videoID); meta != nil {
			return meta, nil
		}
	}

	return nil, shared.ErrFetchFailed
}
