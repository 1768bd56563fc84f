// package services defines clients for YouTube video metadata
//
// YouTube Data API v3 (authenticated), oEmbed (unauthenticated)
package services

import (
	"context"

	"github.com/desertthunder/tunebox/internal/models"
)

// DetailsProvider looks up a single video by identifier.
type DetailsProvider interface {
	// VideoDetails returns title, channel, thumbnail, description and ISO-8601 duration.
	VideoDetails(ctx context.Context, videoID string) (*models.VideoMetadata, error)

	// Configured reports whether the provider can be called at all.
	Configured() bool
}

// Searcher finds videos matching free text.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
}

// FallbackProvider looks up a video without credentials.
//
// A nil result means no metadata was found; failures are not reported as errors.
type FallbackProvider interface {
	Lookup(ctx context.Context, videoID string) *models.VideoMetadata
}

// MetadataResolver composes providers to materialize metadata for a new song.
type MetadataResolver interface {
	Resolve(ctx context.Context, videoID string) (*models.VideoMetadata, error)
}
