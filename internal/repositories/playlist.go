package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
)

const playlistColumns = `id, sequence, name, description, cover_image, created_at, updated_at`

// PlaylistRepository implements models.Repository[*models.Playlist].
//
// Entries live in playlist_songs and are rewritten as a whole on every [PlaylistRepository.Update].
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist and its entries with generated ID and sequence.
//
// A duplicate name fails with a UNIQUE constraint error.
func (r *PlaylistRepository) Create(playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO playlists (` + playlistColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		id,
		sequence,
		playlist.Name(),
		playlist.Description(),
		playlist.CoverImage(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	if err := insertEntries(tx, id, playlist.Entries()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}

	playlist.SetID(id)
	playlist.SetSequence(sequence)
	return nil
}

// Get retrieves a playlist with its entries by record ID
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByName retrieves a playlist with its entries by its unique name
func (r *PlaylistRepository) GetByName(name string) (*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE name = ?`
	return r.scanOne(r.db.QueryRow(query, name))
}

// Find resolves ref as a record ID first, then as a playlist name.
func (r *PlaylistRepository) Find(ref string) (*models.Playlist, error) {
	playlist, err := r.Get(ref)
	if err == nil {
		return playlist, nil
	}
	if !errors.Is(err, shared.ErrPlaylistNotFound) {
		return nil, err
	}
	return r.GetByName(ref)
}

// ExistsByName reports whether a playlist with name exists.
func (r *PlaylistRepository) ExistsByName(name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM playlists WHERE name = ?)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check playlist name: %w", err)
	}
	return exists, nil
}

// Update saves the playlist's fields, replaces its entries, and bumps updated_at.
func (r *PlaylistRepository) Update(playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE playlists
		SET name = ?, description = ?, cover_image = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := tx.Exec(query, playlist.Name(), playlist.Description(), playlist.CoverImage(), now, playlist.ID())
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlist.ID())
	}

	if _, err := tx.Exec(`DELETE FROM playlist_songs WHERE playlist_id = ?`, playlist.ID()); err != nil {
		return fmt.Errorf("failed to clear playlist songs: %w", err)
	}

	if err := insertEntries(tx, playlist.ID(), playlist.Entries()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit playlist: %w", err)
	}

	playlist.SetUpdatedAt(now)
	return nil
}

// Delete removes a playlist by record ID; its entries cascade.
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

// List retrieves all playlists with entries, most recently modified first.
//
// Supported criteria:
//   - "limit" (int): maximum rows
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists ORDER BY updated_at DESC, sequence DESC`
	args := []any{}

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}

	playlists := []*models.Playlist{}
	for rows.Next() {
		playlist, err := r.scanRow(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	for _, playlist := range playlists {
		entries, err := r.entries(playlist.ID())
		if err != nil {
			return nil, err
		}
		playlist.SetEntries(entries)
	}

	return playlists, nil
}

// ContainingSong returns the IDs of every playlist referencing songID.
func (r *PlaylistRepository) ContainingSong(songID string) ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT playlist_id FROM playlist_songs WHERE song_id = ? ORDER BY playlist_id`, songID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan playlist id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

func (r *PlaylistRepository) entries(playlistID string) ([]models.PlaylistEntry, error) {
	rows, err := r.db.Query(`
		SELECT song_id, song_title, duration
		FROM playlist_songs
		WHERE playlist_id = ?
		ORDER BY position ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	entries := []models.PlaylistEntry{}
	for rows.Next() {
		var e models.PlaylistEntry
		if err := rows.Scan(&e.SongID, &e.SongTitle, &e.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

func insertEntries(tx *sql.Tx, playlistID string, entries []models.PlaylistEntry) error {
	for i, e := range entries {
		_, err := tx.Exec(`
			INSERT INTO playlist_songs (playlist_id, position, song_id, song_title, duration)
			VALUES (?, ?, ?, ?, ?)
		`, playlistID, i, e.SongID, e.SongTitle, e.Duration)
		if err != nil {
			return fmt.Errorf("failed to insert playlist song: %w", err)
		}
	}
	return nil
}

// scanOne scans a single row into a [models.Playlist] and loads its entries
func (r *PlaylistRepository) scanOne(row *sql.Row) (*models.Playlist, error) {
	playlist, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, err
	}

	entries, err := r.entries(playlist.ID())
	if err != nil {
		return nil, err
	}
	playlist.SetEntries(entries)
	return playlist, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Playlist] without entries
func (r *PlaylistRepository) scanRow(rows *sql.Rows) (*models.Playlist, error) {
	return scanPlaylist(rows)
}

func scanPlaylist(s scanner) (*models.Playlist, error) {
	var (
		id          string
		sequence    int
		name        string
		description string
		coverImage  string
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := s.Scan(&id, &sequence, &name, &description, &coverImage, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	playlist := models.NewPlaylist(sequence, name, description, coverImage)
	playlist.SetID(id)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	return playlist, nil
}
