package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/tunebox/internal/server"
	"github.com/desertthunder/tunebox/internal/shared"
	"github.com/urfave/cli/v3"
)

// serverOpts wires the runner's dependencies into [server.Opts] without handing typed nils to the interfaces.
func (r *Runner) serverOpts() server.Opts {
	opts := server.Opts{Library: r.library, Logger: r.logger}
	if r.youtube != nil {
		opts.Searcher = r.youtube
		opts.Details = r.youtube
	}
	return opts
}

// listenAddr applies the --host and --port overrides to the configured address.
func (r *Runner) listenAddr(cmd *cli.Command) shared.ServerConfig {
	addr := r.config.Server
	if host := cmd.String("host"); host != "" {
		addr.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		addr.Port = port
	}
	return addr
}

// Serve runs the HTTP server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.lib(); err != nil {
		return err
	}
	if r.youtube == nil || !r.youtube.Configured() {
		r.logger.Warn("search and video details are unavailable without a YouTube API key")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := r.listenAddr(cmd).Addr()
	url := fmt.Sprintf("http://%s", addr)
	r.writePlain("Serving %s\n", url)
	r.writePlain("  API:    %s%s<method>\n", url, server.MethodPrefix)
	r.writePlain("  Player: %s/music-player\n", url)

	if cmd.Bool("open") {
		go func() {
			if err := r.browser(url + "/music-player"); err != nil {
				r.logger.Warn("failed to open browser", "error", err)
			}
		}()
	}

	return server.Serve(ctx, addr, server.New(r.serverOpts()), r.logger)
}

// Search prints YouTube search results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	if r.youtube == nil {
		return shared.ErrNotConfigured
	}
	results, err := r.youtube.Search(ctx, query, cmd.Int("max"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	r.writePlain("Found %d videos for %q\n\n", len(results), query)
	for i, res := range results {
		duration := res.Duration
		if duration == "" {
			duration = "?"
		}
		r.writePlain("%2d. %s [%s]\n", i+1, res.Title, duration)
		r.writePlain("    %s • %s\n", res.Channel, shared.WatchURL(res.VideoID))
	}
	return nil
}
