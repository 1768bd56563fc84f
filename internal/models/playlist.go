package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tunebox/internal/shared"
)

// PlaylistEntry references a [Song] by record id.
//
// SongTitle and Duration are copies taken when the entry was added and may be stale.
type PlaylistEntry struct {
	SongID    string `json:"song"`
	SongTitle string `json:"song_title"`
	Duration  string `json:"duration"`
}

// EntryFor builds a [PlaylistEntry] caching the song's current title and duration.
func EntryFor(song *Song) PlaylistEntry {
	return PlaylistEntry{SongID: song.ID(), SongTitle: song.Title(), Duration: song.Duration()}
}

// Playlist is a uniquely named, ordered collection of song references.
type Playlist struct {
	base
	name        string
	description string
	coverImage  string
	entries     []PlaylistEntry
}

// NewPlaylist creates an empty Playlist.
func NewPlaylist(sequence int, name, description, coverImage string) *Playlist {
	return &Playlist{
		base:        newBase(sequence),
		name:        strings.TrimSpace(name),
		description: description,
		coverImage:  coverImage,
	}
}

func (p *Playlist) Name() string        { return p.name }
func (p *Playlist) Description() string { return p.description }
func (p *Playlist) CoverImage() string  { return p.coverImage }
func (p *Playlist) Len() int            { return len(p.entries) }

// Entries returns a copy of the ordered entries.
func (p *Playlist) Entries() []PlaylistEntry {
	out := make([]PlaylistEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// SetEntries replaces the entries, keeping their order.
func (p *Playlist) SetEntries(entries []PlaylistEntry) {
	p.entries = make([]PlaylistEntry, len(entries))
	copy(p.entries, entries)
}

// SongIDs returns the referenced song record ids in playlist order.
func (p *Playlist) SongIDs() []string {
	ids := make([]string, len(p.entries))
	for i, e := range p.entries {
		ids[i] = e.SongID
	}
	return ids
}

// Contains reports whether songID is referenced.
func (p *Playlist) Contains(songID string) bool {
	for _, e := range p.entries {
		if e.SongID == songID {
			return true
		}
	}
	return false
}

// Append adds entry at the end unless its song is already referenced. Reports whether it was added.
func (p *Playlist) Append(entry PlaylistEntry) bool {
	if p.Contains(entry.SongID) {
		return false
	}
	p.entries = append(p.entries, entry)
	return true
}

// Remove drops every reference to songID and returns how many were removed.
func (p *Playlist) Remove(songID string) int {
	kept := p.entries[:0]
	for _, e := range p.entries {
		if e.SongID != songID {
			kept = append(kept, e)
		}
	}
	removed := len(p.entries) - len(kept)
	p.entries = kept
	return removed
}

// Validate checks required fields and that no song is referenced twice.
func (p *Playlist) Validate() error {
	if p.name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(p.entries))
	for _, e := range p.entries {
		if e.SongID == "" {
			return fmt.Errorf("%w: playlist entry without song", shared.ErrInvalidInput)
		}
		if seen[e.SongID] {
			return fmt.Errorf("%w: song %s referenced twice", shared.ErrInvalidInput, e.SongID)
		}
		seen[e.SongID] = true
	}
	return nil
}

// Summary returns the navigation row for this playlist.
func (p *Playlist) Summary() PlaylistSummary {
	return PlaylistSummary{
		Name:         p.id,
		PlaylistName: p.name,
		CoverImage:   p.coverImage,
		SongCount:    len(p.entries),
	}
}

// MarshalJSON encodes the playlist document including its entries.
func (p *Playlist) MarshalJSON() ([]byte, error) {
	entries := p.entries
	if entries == nil {
		entries = []PlaylistEntry{}
	}
	return json.Marshal(playlistRecord{
		Name:         p.id,
		PlaylistName: p.name,
		Description:  p.description,
		CoverImage:   p.coverImage,
		Songs:        entries,
		CreatedAt:    p.createdAt,
		UpdatedAt:    p.updatedAt,
	})
}

type playlistRecord struct {
	Name         string          `json:"name"`
	PlaylistName string          `json:"playlist_name"`
	Description  string          `json:"description"`
	CoverImage   string          `json:"cover_image"`
	Songs        []PlaylistEntry `json:"songs"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PlaylistSummary is the navigation row for playlist listings.
type PlaylistSummary struct {
	Name         string `json:"name"`
	PlaylistName string `json:"playlist_name"`
	CoverImage   string `json:"cover_image,omitempty"`
	SongCount    int    `json:"song_count"`
}
