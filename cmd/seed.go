package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tunebox/internal/shared"
	"github.com/desertthunder/tunebox/internal/tasks"
	"github.com/urfave/cli/v3"
)

// printProgress writes updates until progressCh is closed, then closes the returned channel.
func (r *Runner) printProgress(progressCh <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPlaylists:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SearchSongs:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.CreatePlaylist:
				r.writePlain("\n📝 %s\n", update.Message)
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()
	return done
}

// SeedDemo adds the demo songs and playlist.
func (r *Runner) SeedDemo(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.lib(); err != nil {
		return err
	}

	r.writePlain("Seeding demo library...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)
	result, err := r.seeder.SeedDemo(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Seed Complete!")
	r.writePlain("Songs added: %d/%d\n", len(result.Added()), len(result.Songs))
	if result.PlaylistCreated {
		r.writePlain("Playlist: %s (%d songs)\n", result.Playlist.Name(), result.Playlist.Len())
	} else {
		r.writePlain("Playlist: %s already exists, left unchanged\n", result.Playlist.Name())
	}
	return nil
}

// SeedSearch saves YouTube search results to the library.
func (r *Runner) SeedSearch(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.lib(); err != nil {
		return err
	}
	if r.youtube == nil || !r.youtube.Configured() {
		return fmt.Errorf("%w: seeding from search needs the YouTube Data API", shared.ErrNotConfigured)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.printProgress(progressCh)
	result, err := r.seeder.ImportFromSearch(ctx, progressCh, cmd.String("query"), cmd.Int("max"))
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete!")
	r.writePlain("Query: %q (%d found)\n", result.Query, result.Found)
	r.writePlain("Created: %d\n", len(result.Created))
	r.writePlain("Already saved: %d\n", len(result.Existing))
	if len(result.Failed) > 0 {
		r.writePlain("\nFailed to save %d videos:\n", len(result.Failed))
		for _, f := range result.Failed {
			r.writePlain("  - %s: %v\n", f.VideoID, f.Error)
		}
	}
	return nil
}
