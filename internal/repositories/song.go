package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
)

// DefaultSongLimit caps song listings when no limit is given.
const DefaultSongLimit = 50

const songColumns = `id, sequence, youtube_id, title, channel, thumbnail, description, duration, is_favorite, created_at, updated_at`

// SongRepository implements models.Repository[*models.Song].
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new song with generated ID and sequence.
//
// A second song with the same YouTube id fails with a UNIQUE constraint error (see [shared.IsUniqueViolation]).
func (r *SongRepository) Create(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO songs (` + songColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		song.YouTubeID(),
		song.Title(),
		song.Channel(),
		song.Thumbnail(),
		song.Description(),
		song.Duration(),
		song.IsFavorite(),
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	song.SetID(id)
	song.SetSequence(sequence)
	return nil
}

// Get retrieves a song by record ID
func (r *SongRepository) Get(id string) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByVideoID retrieves a song by its YouTube video id
func (r *SongRepository) GetByVideoID(videoID string) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE youtube_id = ?`
	return r.scanOne(r.db.QueryRow(query, videoID))
}

// Update persists the mutable fields of a song and bumps updated_at.
func (r *SongRepository) Update(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE songs
		SET title = ?, channel = ?, thumbnail = ?, description = ?, duration = ?, is_favorite = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		song.Title(),
		song.Channel(),
		song.Thumbnail(),
		song.Description(),
		song.Duration(),
		song.IsFavorite(),
		now,
		song.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, song.ID())
	}

	song.SetUpdatedAt(now)
	return nil
}

// Delete removes a song row by record ID.
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	return nil
}

// List retrieves songs, most recently modified first.
//
// Supported criteria:
//   - "favorites" (bool): only favorited songs
//   - "ids" ([]string): only these record ids; an empty non-nil slice matches nothing
//   - "limit" (int): maximum rows, defaulting to [DefaultSongLimit]
func (r *SongRepository) List(criteria map[string]any) ([]*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE 1 = 1`
	args := []any{}

	if favorites, ok := criteria["favorites"].(bool); ok && favorites {
		query += " AND is_favorite = 1"
	}

	if ids, ok := criteria["ids"].([]string); ok {
		if len(ids) == 0 {
			return []*models.Song{}, nil
		}
		query += " AND id IN (" + placeholders(len(ids)) + ")"
		args = append(args, stringArgs(ids)...)
	}

	limit := DefaultSongLimit
	if l, ok := criteria["limit"].(int); ok && l > 0 {
		limit = l
	}

	query += " ORDER BY updated_at DESC, sequence DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []*models.Song{}
	for rows.Next() {
		song, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// scanOne scans a single row into a [models.Song]
func (r *SongRepository) scanOne(row *sql.Row) (*models.Song, error) {
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSongNotFound
	}
	return song, err
}

// scanRow scans a row from [sql.Rows] into a [models.Song]
func (r *SongRepository) scanRow(rows *sql.Rows) (*models.Song, error) {
	return scanSong(rows)
}

func scanSong(s scanner) (*models.Song, error) {
	var (
		id        string
		sequence  int
		meta      models.VideoMetadata
		favorite  bool
		createdAt time.Time
		updatedAt time.Time
	)

	err := s.Scan(&id, &sequence, &meta.VideoID, &meta.Title, &meta.Channel, &meta.Thumbnail, &meta.Description,
		&meta.Duration, &favorite, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song := models.NewSong(sequence, meta)
	song.SetID(id)
	song.SetFavorite(favorite)
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)
	return song, nil
}
