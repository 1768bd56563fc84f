package server

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunebox/internal/library"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/services"
	"github.com/desertthunder/tunebox/internal/shared"
	"github.com/desertthunder/tunebox/internal/web"
)

// MethodPrefix is the path prefix of RPC methods.
const MethodPrefix = "/api/method/"

// Library is the set of library operations exposed as RPC methods; see [library.Service].
type Library interface {
	web.Library
	AddSongFromURL(ctx context.Context, rawURL string) (*models.Song, error)
	ToggleFavorite(ctx context.Context, videoID string) (bool, error)
	CreatePlaylistWithDetails(ctx context.Context, name, description, cover string) (*models.Playlist, error)
	AddToPlaylist(ctx context.Context, ref, videoID string) (library.AddResult, error)
	RemoveFromPlaylist(ctx context.Context, ref, videoID string) (bool, error)
	DeleteSong(ctx context.Context, ref string) (library.DeleteResult, error)
}

// Method is a single RPC method. The returned value becomes the "message" field.
type Method func(ctx context.Context, params Params) (any, error)

// APIHandler serves /api/method/<name> for GET and POST.
type APIHandler struct {
	methods map[string]Method
	logger  *log.Logger
}

// NewAPIHandler registers the library RPC methods.
func NewAPIHandler(opts Opts) *APIHandler {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	h := &APIHandler{
		methods: map[string]Method{},
		logger:  shared.WithLogger(opts.Logger, "handler", "api"),
	}

	lib := opts.Library
	h.Register("search", func(ctx context.Context, p Params) (any, error) {
		if opts.Searcher == nil {
			return nil, shared.ErrNotConfigured
		}
		query, err := p.Require("query")
		if err != nil {
			return nil, err
		}
		limit, err := p.Int("max_results", services.DefaultSearchResults)
		if err != nil {
			return nil, err
		}
		return opts.Searcher.Search(ctx, query, limit)
	})
	h.Register("get_video_details", func(ctx context.Context, p Params) (any, error) {
		if opts.Details == nil {
			return nil, shared.ErrNotConfigured
		}
		id, err := p.Require("video_id")
		if err != nil {
			return nil, err
		}
		return opts.Details.VideoDetails(ctx, id)
	})
	h.Register("extract_video_id_from_url", func(ctx context.Context, p Params) (any, error) {
		if id, ok := shared.ExtractVideoID(p.String("url")); ok {
			return id, nil
		}
		return nil, nil
	})
	h.Register("add_song_from_url", func(ctx context.Context, p Params) (any, error) {
		url, err := p.Require("url")
		if err != nil {
			return nil, err
		}
		return lib.AddSongFromURL(ctx, url)
	})
	h.Register("toggle_favorite", func(ctx context.Context, p Params) (any, error) {
		id, err := p.Require("video_id")
		if err != nil {
			return nil, err
		}
		return lib.ToggleFavorite(ctx, id)
	})
	h.Register("get_playlists", func(ctx context.Context, p Params) (any, error) {
		return lib.ListPlaylists(ctx)
	})
	h.Register("create_playlist", func(ctx context.Context, p Params) (any, error) {
		name, err := p.Require("playlist_name")
		if err != nil {
			return nil, err
		}
		playlist, err := lib.CreatePlaylistWithDetails(ctx, name, p.String("description"), p.String("cover_image"))
		if err != nil {
			return nil, err
		}
		return playlist.ID(), nil
	})
	h.Register("add_to_playlist", func(ctx context.Context, p Params) (any, error) {
		ref, id, err := playlistAndVideo(p)
		if err != nil {
			return nil, err
		}
		result, err := lib.AddToPlaylist(ctx, ref, id)
		if err != nil {
			return nil, err
		}
		if !result.Added {
			return result.Notice, nil
		}
		return true, nil
	})
	h.Register("remove_from_playlist", func(ctx context.Context, p Params) (any, error) {
		ref, id, err := playlistAndVideo(p)
		if err != nil {
			return nil, err
		}
		return lib.RemoveFromPlaylist(ctx, ref, id)
	})
	h.Register("delete_song", func(ctx context.Context, p Params) (any, error) {
		ref, err := p.Require("song_name")
		if err != nil {
			return nil, err
		}
		return lib.DeleteSong(ctx, ref)
	})
	h.Register("get_library_songs", func(ctx context.Context, p Params) (any, error) {
		return lib.ListSongs(ctx, library.SongFilter{
			Playlist:      p.String("playlist"),
			FavoritesOnly: p.Bool("favorites"),
		})
	})

	return h
}

func playlistAndVideo(p Params) (string, string, error) {
	ref, err := p.Require("playlist_name")
	if err != nil {
		return "", "", err
	}
	id, err := p.Require("video_id")
	if err != nil {
		return "", "", err
	}
	return ref, id, nil
}

// Register adds or replaces the method served at /api/method/name.
func (h *APIHandler) Register(name string, method Method) {
	h.methods[name] = method
}

// Methods returns the registered method names, sorted.
func (h *APIHandler) Methods() []string {
	names := make([]string, 0, len(h.methods))
	for name := range h.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h *APIHandler) Routes() []string {
	return []string{MethodPrefix}
}

func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed", Kind: "validation"})
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, MethodPrefix), "/")
	method, ok := h.methods[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Unknown method " + name, Kind: shared.KindNotFound.String()})
		return
	}

	params, err := ParseParams(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	result, err := method(r.Context(), params)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{Message: result})
}

// PageHandler serves the music player page context as JSON.
type PageHandler struct {
	builder *web.Builder
	logger  *log.Logger
}

// NewPageHandler creates a page handler over builder.
func NewPageHandler(builder *web.Builder, logger *log.Logger) *PageHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PageHandler{builder: builder, logger: shared.WithLogger(logger, "handler", "page")}
}

func (h *PageHandler) Routes() []string {
	return []string{"/music-player"}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed", Kind: "validation"})
		return
	}

	params, err := ParseParams(r)
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	page, err := h.builder.Build(r.Context(), web.Params{
		Playlist:  params.String("playlist"),
		Favorites: params.Bool("favorites"),
	})
	if err != nil {
		writeError(w, h.logger, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, page)
}

// Opts configures [New] and [NewAPIHandler].
type Opts struct {
	Library  Library
	Searcher services.Searcher
	Details  services.DetailsProvider
	Logger   *log.Logger
}

// New builds the application router with recovery and request logging.
func New(opts Opts) *BasicRouter {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	router := NewBasicRouter()
	router.Use(Recover(opts.Logger), Logging(shared.WithLogger(opts.Logger, "component", "http")))

	router.Handler(NewAPIHandler(opts))
	router.Handler(NewPageHandler(web.NewBuilder(opts.Library), opts.Logger))
	router.HandleFunc(http.MethodGet, "/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return router
}
