package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tunebox/internal/library"
	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
	"github.com/desertthunder/tunebox/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	SongListView
	SeedView
	ResultView
)

// Library is the subset of [library.Service] the browser reads and writes.
type Library interface {
	ListPlaylists(ctx context.Context) ([]models.PlaylistSummary, error)
	ListSongs(ctx context.Context, filter library.SongFilter) ([]models.SongSummary, error)
	ToggleFavorite(ctx context.Context, videoID string) (bool, error)
}

// Seeder creates the demo library; see [tasks.Seeder].
type Seeder interface {
	SeedDemo(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.SeedResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	library      Library
	seeder       Seeder
	width        int
	height       int
	playlistList list.Model
	songList     list.Model
	filter       library.SongFilter
	songsTitle   string
	progressChan chan tasks.ProgressUpdate
	seedDone     chan Msg
	progress     tasks.ProgressUpdate
	result       *tasks.SeedResult
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model. seeder may be nil, which disables seeding.
func NewModel(ctx context.Context, lib Library, seeder Seeder) *Model {
	return &Model{
		ctx:          ctx,
		view:         PlaylistListView,
		library:      lib,
		seeder:       seeder,
		playlistList: newList("Playlists"),
		songList:     newList("Songs"),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

// ViewState returns the view currently shown.
func (m *Model) ViewState() ViewState { return m.view }

// Init initializes the TUI by fetching playlists from the library.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.songList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.err != nil && key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case SongListView:
			return m.handleSongListKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsFetched:
		data := msg.data.(playlistsFetched)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		items := make([]list.Item, len(data.playlists))
		for i, pl := range data.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		return m, m.playlistList.SetItems(items)

	case MsgSongsFetched:
		data := msg.data.(songsFetched)
		if data.err != nil {
			m.status = shared.UserMessage(data.err)
			m.view = PlaylistListView
			return m, nil
		}
		items := make([]list.Item, len(data.songs))
		for i, song := range data.songs {
			items[i] = songItem{song: song}
		}
		m.songList.Title = m.songsTitle
		m.view = SongListView
		return m, m.songList.SetItems(items)

	case MsgFavoriteToggled:
		data := msg.data.(favoriteToggled)
		if data.err != nil {
			m.status = shared.UserMessage(data.err)
			return m, nil
		}
		if data.favorite {
			m.status = "Added to favorites"
		} else {
			m.status = "Removed from favorites"
		}
		return m, m.fetchSongs(m.filter, m.songsTitle)

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan, m.seedDone)

	case MsgSeedComplete:
		data := msg.data.(seedComplete)
		m.result = data.result
		m.status = ""
		if data.err != nil {
			m.status = shared.UserMessage(data.err)
		}
		m.progressChan = nil
		m.seedDone = nil
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %s\n\nPress q to quit", shared.UserMessage(m.err)))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case SongListView:
		return m.renderSongList()
	case SeedView:
		return m.renderSeed()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) filtering(l list.Model) bool {
	return l.FilterState() == list.Filtering
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.filtering(m.playlistList) {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			if pl, ok := m.playlistList.SelectedItem().(playlistItem); ok {
				m.status = ""
				return m, m.fetchSongs(library.SongFilter{Playlist: pl.playlist.Name}, fmt.Sprintf("Songs in '%s'", pl.playlist.PlaylistName))
			}
			return m, nil
		case key.Matches(msg, m.keys.all):
			m.status = ""
			return m, m.fetchSongs(library.SongFilter{}, "All songs")
		case key.Matches(msg, m.keys.favorites):
			m.status = ""
			return m, m.fetchSongs(library.SongFilter{FavoritesOnly: true}, "Favorites")
		case key.Matches(msg, m.keys.reload):
			return m, m.fetchPlaylists()
		case key.Matches(msg, m.keys.seed):
			if m.seeder == nil {
				m.status = "Seeding is not available"
				return m, nil
			}
			m.view = SeedView
			return m, m.startSeed()
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.filtering(m.songList) {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.back):
			m.view = PlaylistListView
			m.status = ""
			return m, m.fetchPlaylists()
		case key.Matches(msg, m.keys.favorite):
			if song, ok := m.songList.SelectedItem().(songItem); ok {
				return m, m.toggleFavorite(song.song.YouTubeID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.reload):
		m.view = PlaylistListView
		m.result = nil
		m.status = ""
		return m, m.fetchPlaylists()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.library.ListPlaylists(m.ctx)
		return playlistsFetchedMsg(playlists, err)
	}
}

func (m *Model) fetchSongs(filter library.SongFilter, title string) tea.Cmd {
	m.filter = filter
	m.songsTitle = title
	return func() tea.Msg {
		songs, err := m.library.ListSongs(m.ctx, filter)
		return songsFetchedMsg(songs, err)
	}
}

func (m *Model) toggleFavorite(videoID string) tea.Cmd {
	return func() tea.Msg {
		favorite, err := m.library.ToggleFavorite(m.ctx, videoID)
		return favoriteToggledMsg(videoID, favorite, err)
	}
}

func (m *Model) startSeed() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.seedDone = done
	m.progress = tasks.ProgressUpdate{Phase: tasks.AddSongs, Total: len(tasks.DemoVideos), Message: "Adding demo songs..."}

	seeder := m.seeder
	ctx := m.ctx
	go func() {
		result, err := seeder.SeedDemo(ctx, progress)
		close(progress)
		done <- seedCompleteMsg(result, err)
	}()

	return waitForProgress(progress, done)
}

// waitForProgress relays the next progress update, then the completion message once progress is closed.
func waitForProgress(progress <-chan tasks.ProgressUpdate, done <-chan Msg) tea.Cmd {
	return func() tea.Msg {
		if progress != nil {
			if update, ok := <-progress; ok {
				return progressUpdateMsg(update)
			}
		}
		return <-done
	}
}

func (m *Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	return "\n" + styles.warn.Render(m.status)
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.all, m.keys.favorites, m.keys.seed, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s%s\n\n%s", m.playlistList.View(), m.renderStatus(), helpView)
}

func (m *Model) renderSongList() string {
	helpKeys := []key.Binding{m.keys.favorite, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s%s\n\n%s", m.songList.View(), m.renderStatus(), helpView)
}

func (m *Model) renderSeed() string {
	title := styles.title.Render("Creating Demo Library")

	var phase string
	switch m.progress.Phase {
	case tasks.AddSongs:
		phase = fmt.Sprintf("Adding songs (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.CreatePlaylist:
		phase = "Creating playlist..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})

	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("Seeding failed: "+m.status), helpView)
	}

	var b strings.Builder
	if m.status != "" {
		b.WriteString(styles.err.Render("Seeding failed: " + m.status))
	} else {
		b.WriteString(styles.ok.Render("✓ Demo library ready"))
	}
	b.WriteString("\n")

	for _, o := range m.result.Songs {
		if o.Error != nil {
			b.WriteString(styles.warn.Render(fmt.Sprintf("\n  ✗ %s: %s", o.VideoID, shared.UserMessage(o.Error))))
			continue
		}
		b.WriteString(fmt.Sprintf("\n  • %s (%s)", o.Song.Title(), o.Song.DisplayDuration()))
	}

	if pl := m.result.Playlist; pl != nil {
		state := "kept existing"
		if m.result.PlaylistCreated {
			state = "created"
		}
		b.WriteString(fmt.Sprintf("\n\nPlaylist '%s' %s (%d songs)", pl.Name(), state, pl.Len()))
	}

	return fmt.Sprintf("%s\n\n%s", b.String(), styles.help.Render(helpView))
}
