// Package services implements the video metadata providers used to materialize songs.
//
// # YouTube Data API
//
// [YouTubeService] wraps the google.golang.org/api/youtube/v3 client authenticated with an API key.
// It implements [DetailsProvider] (videos.list with snippet,contentDetails) and [Searcher]
// (search.list restricted to the Music category, followed by one batched videos.list for durations).
// Calls are throttled by a shared token bucket and bounded by a per-request timeout.
//
// Without an API key the service is constructed unconfigured: [YouTubeService.VideoDetails] and
// [YouTubeService.Search] fail with [shared.ErrNotConfigured] without touching the network.
//
// # oEmbed
//
// [OEmbedService] calls the public oEmbed endpoint. It yields title, author and thumbnail only;
// description and duration are filled with placeholders. Failures are logged and reported as nil.
//
// # Resolution
//
// [Resolver] tries the Data API when configured, then oEmbed, and fails with [shared.ErrFetchFailed]
// when neither yields metadata. No call is retried.
//
// # Error Handling
//
// Upstream HTTP failures are returned as [*shared.UpstreamError] carrying a message fit for display:
//   - status 400: invalid key or request, with the upstream message appended when present
//   - other statuses: "YouTube API error: ..."
//   - transport failures: "error getting video details: ..." or "error searching YouTube: ..."
package services
