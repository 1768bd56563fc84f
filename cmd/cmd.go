// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/tunebox/internal/formatter"
	"github.com/desertthunder/tunebox/internal/services"
	"github.com/desertthunder/tunebox/internal/tasks"
	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output JSON",
	}
}

// setupCommand handles database and configuration setup
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the library database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Create a config.toml from the embedded example",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
		},
	}
}

// serveCommand starts the HTTP server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the RPC API and the music player page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (defaults to server.host in config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (defaults to server.port in config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the music player page in a browser",
			},
		},
		Action: r.Serve,
	}
}

// searchCommand searches YouTube
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search YouTube for music videos",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "max",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results",
				Value:   services.DefaultSearchResults,
			},
			jsonFlag(),
		},
		Action: r.Search,
	}
}

// songCommand handles library song operations
func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "song",
		Aliases: []string{"songs"},
		Usage:   "Library song operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a song from a YouTube URL",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.SongAdd,
			},
			{
				Name:  "details",
				Usage: "Show YouTube Data API details for a video",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "video_id"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.SongDetails,
			},
			{
				Name:  "resolve",
				Usage: "Resolve video metadata with the oEmbed fallback without saving",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "video_id"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.SongResolve,
			},
			{
				Name:  "favorite",
				Usage: "Toggle the favorite flag of a song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "video_id"},
				},
				Action: r.SongFavorite,
			},
			{
				Name:  "delete",
				Usage: "Delete a song and remove it from every playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "song"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.SongDelete,
			},
			{
				Name:  "list",
				Usage: "List songs, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "playlist",
						Usage: "Only songs in this playlist (id or name)",
					},
					&cli.BoolFlag{
						Name:    "favorites",
						Aliases: []string{"f"},
						Usage:   "Only favorite songs",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum number of songs",
					},
					jsonFlag(),
				},
				Action: r.SongList,
			},
		},
	}
}

// playlistCommand handles playlist operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
					&cli.StringFlag{
						Name:  "cover",
						Usage: "Cover image URL",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:   "list",
				Usage:  "List playlists",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.PlaylistList,
			},
			{
				Name:  "add",
				Usage: "Add a song to a playlist, fetching it from YouTube when new",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
					&cli.StringArg{Name: "video_id"},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a song from a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
					&cli.StringArg{Name: "video_id"},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist; its songs stay in the library",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Action: r.PlaylistDelete,
			},
			{
				Name:  "show",
				Usage: "Show a playlist and its songs in order",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.PlaylistShow,
			},
			{
				Name:      "export",
				Usage:     "Export playlists to files",
				ArgsUsage: "[playlist...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   formatter.FormatJSON,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every playlist",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers for bulk exports",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Playlists started per second for bulk exports",
						Value: 5,
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// seedCommand populates the library
func seedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Populate the library with sample data",
		Commands: []*cli.Command{
			{
				Name:   "demo",
				Usage:  "Add the demo songs and the '" + tasks.DemoPlaylistName + "' playlist",
				Action: r.SeedDemo,
			},
			{
				Name:  "search",
				Usage: "Save YouTube search results to the library",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Search query",
						Value:   tasks.DefaultSearchQuery,
					},
					&cli.IntFlag{
						Name:    "max",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   tasks.DefaultSearchMax,
					},
				},
				Action: r.SeedSearch,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse playlists and songs in an interactive terminal UI",
		Action: r.TUI,
	}
}
