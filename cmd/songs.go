package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tunebox/internal/library"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
	"github.com/urfave/cli/v3"
)

// requireArg returns the named positional argument or [shared.ErrMissingArgument].
func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.StringArg(name)
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}

func (r *Runner) writeSong(song *models.Song) {
	fav := ""
	if song.IsFavorite() {
		fav = " ★"
	}
	r.writePlain("%s%s\n", song.Title(), fav)
	r.writePlain("  ID:       %s\n", song.ID())
	r.writePlain("  Video:    %s\n", shared.WatchURL(song.YouTubeID()))
	r.writePlain("  Channel:  %s\n", song.Channel())
	r.writePlain("  Duration: %s\n", song.DisplayDuration())
}

func (r *Runner) writeMetadata(meta *models.VideoMetadata) {
	r.writePlain("%s\n", meta.Title)
	r.writePlain("  Video:     %s\n", shared.WatchURL(meta.VideoID))
	r.writePlain("  Channel:   %s\n", meta.Channel)
	r.writePlain("  Duration:  %s\n", shared.FormatDuration(meta.Duration))
	r.writePlain("  Thumbnail: %s\n", meta.Thumbnail)
	if meta.Description != "" {
		r.writePlain("\n%s\n", meta.Description)
	}
}

// SongAdd saves a song from a YouTube URL.
func (r *Runner) SongAdd(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	url, err := requireArg(cmd, "url")
	if err != nil {
		return err
	}

	song, err := lib.AddSongFromURL(ctx, url)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(song, true)
	}
	r.writePlain("✓ Saved: ")
	r.writeSong(song)
	return nil
}

// SongDetails prints Data API details for a video without saving it.
func (r *Runner) SongDetails(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "video_id")
	if err != nil {
		return err
	}
	if r.youtube == nil {
		return shared.ErrNotConfigured
	}

	meta, err := r.youtube.VideoDetails(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(meta, true)
	}
	r.writeMetadata(meta)
	return nil
}

// SongResolve prints the metadata a new song would be saved with.
func (r *Runner) SongResolve(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "video_id")
	if err != nil {
		return err
	}
	if r.resolver == nil {
		return fmt.Errorf("%w: metadata resolver not initialized", shared.ErrMissingConfig)
	}

	meta, err := r.resolver.Resolve(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(meta, true)
	}
	r.writeMetadata(meta)
	return nil
}

// SongFavorite toggles the favorite flag of a song.
func (r *Runner) SongFavorite(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	id, err := requireArg(cmd, "video_id")
	if err != nil {
		return err
	}

	favorite, err := lib.ToggleFavorite(ctx, id)
	if err != nil {
		return err
	}

	if favorite {
		r.writePlain("★ %s marked as favorite\n", id)
	} else {
		r.writePlain("☆ %s removed from favorites\n", id)
	}
	return nil
}

// SongDelete removes a song from the library and every playlist.
func (r *Runner) SongDelete(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	ref, err := requireArg(cmd, "song")
	if err != nil {
		return err
	}

	result, err := lib.DeleteSong(ctx, ref)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}
	if !result.Deleted {
		r.writePlain("Song %s not found; nothing deleted\n", ref)
		return nil
	}

	r.writePlain("✓ Deleted %s\n", ref)
	for _, name := range result.Cleaned {
		r.writePlain("  removed from %s\n", name)
	}
	for _, f := range result.Failed {
		r.writePlain("  ✗ %s: %s\n", f.Playlist, f.Error)
	}
	return nil
}

// SongList prints library songs.
func (r *Runner) SongList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	songs, err := lib.ListSongs(ctx, library.SongFilter{
		Playlist:      cmd.String("playlist"),
		FavoritesOnly: cmd.Bool("favorites"),
		Limit:         cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}
	if len(songs) == 0 {
		r.writePlain("No songs found\n")
		return nil
	}

	for i, s := range songs {
		fav := " "
		if s.IsFavorite {
			fav = "★"
		}
		r.writePlain("%3d. %s %s [%s]\n", i+1, fav, s.Title, s.Duration)
		r.writePlain("       %s • %s\n", s.Channel, s.YouTubeID)
	}
	r.writePlainln("%d songs", len(songs))
	return nil
}
