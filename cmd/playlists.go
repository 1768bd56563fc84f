package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tunebox/internal/formatter"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
	"github.com/desertthunder/tunebox/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate creates an empty playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}

	playlist, err := lib.CreatePlaylistWithDetails(ctx, name, cmd.String("description"), cmd.String("cover"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Playlist created: %s (ID: %s)\n", playlist.Name(), playlist.ID())
	return nil
}

// PlaylistList prints every playlist.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	playlists, err := lib.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}
	if len(playlists) == 0 {
		r.writePlain("No playlists yet. Create one with 'tunebox playlist create <name>'\n")
		return nil
	}

	for _, p := range playlists {
		r.writePlain("%s  %s (%d songs)\n", p.Name, p.PlaylistName, p.SongCount)
	}
	return nil
}

// PlaylistAdd appends a song to a playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	ref, err := requireArg(cmd, "playlist")
	if err != nil {
		return err
	}
	id, err := requireArg(cmd, "video_id")
	if err != nil {
		return err
	}

	result, err := lib.AddToPlaylist(ctx, ref, id)
	if err != nil {
		return err
	}

	if !result.Added {
		r.writePlain("%s\n", result.Notice)
		return nil
	}
	r.writePlain("✓ Added %s to %s\n", id, ref)
	return nil
}

// PlaylistRemove drops a song from a playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	ref, err := requireArg(cmd, "playlist")
	if err != nil {
		return err
	}
	id, err := requireArg(cmd, "video_id")
	if err != nil {
		return err
	}

	removed, err := lib.RemoveFromPlaylist(ctx, ref, id)
	if err != nil {
		return err
	}

	if !removed {
		r.writePlain("%s is not in %s\n", id, ref)
		return nil
	}
	r.writePlain("✓ Removed %s from %s\n", id, ref)
	return nil
}

// PlaylistDelete removes a playlist by id or name.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	ref, err := requireArg(cmd, "playlist")
	if err != nil {
		return err
	}

	playlist, err := lib.DeletePlaylist(ctx, ref)
	if err != nil {
		return err
	}

	r.writePlain("✓ Deleted playlist %s (%d songs kept in library)\n", playlist.Name(), playlist.Len())
	return nil
}

// PlaylistShow prints a playlist and its songs in order.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}
	ref, err := requireArg(cmd, "playlist")
	if err != nil {
		return err
	}

	playlist, songs, err := lib.PlaylistSongs(ctx, ref)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Playlist *models.Playlist `json:"playlist"`
			Songs    []*models.Song   `json:"songs"`
		}{playlist, songs}, true)
	}

	export := &formatter.Export{Playlist: playlist, Songs: songs}
	r.writePlainHeader(playlist.Name())
	if d := playlist.Description(); d != "" {
		r.writePlain("%s\n", d)
	}
	r.writePlain("ID: %s • %d songs • %s\n\n", playlist.ID(), len(songs), shared.FormatSeconds(int(export.TotalDuration().Seconds())))
	for i, song := range songs {
		r.writePlain("%3d. %s [%s]\n", i+1, song.Title(), song.DisplayDuration())
		r.writePlain("       %s • %s\n", song.Channel(), shared.WatchURL(song.YouTubeID()))
	}
	return nil
}

// PlaylistExport writes one playlist to disk, or several concurrently with --all or multiple arguments.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.lib()
	if err != nil {
		return err
	}

	refs := cmd.Args().Slice()
	format := cmd.String("format")

	if !cmd.Bool("all") && len(refs) == 0 {
		return fmt.Errorf("%w: playlist (or --all)", shared.ErrMissingArgument)
	}

	if !cmd.Bool("all") && len(refs) == 1 {
		playlist, songs, err := lib.PlaylistSongs(ctx, refs[0])
		if err != nil {
			return err
		}
		output := cmd.String("output")
		if output == "" {
			output = "."
		}

		files, err := formatter.Write(&formatter.Export{Playlist: playlist, Songs: songs}, format, output)
		if err != nil {
			return err
		}

		r.writePlain("✓ Exported %s (%d songs)\n", playlist.Name(), len(songs))
		for _, f := range files {
			r.writePlain("  %s\n", f)
		}
		return nil
	}

	if cmd.Bool("all") {
		refs = nil
	}
	return r.bulkExport(ctx, refs, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
}

func (r *Runner) bulkExport(ctx context.Context, refs []string, opts tasks.BulkExportOpts) error {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)
	result, err := r.exporter.BulkExport(ctx, progressCh, refs, opts)
	close(progressCh)
	<-done

	if err != nil && result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Exported: %d/%d playlists\n", result.SuccessfulExports, result.TotalPlaylists)
	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d playlists:\n", result.FailedExports)
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  - %s: %v\n", res.PlaylistName, res.Error)
			}
		}
	}
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	return err
}
