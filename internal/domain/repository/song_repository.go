package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"melodia/internal/common"
	"melodia/internal/domain/model"
)

type SongRepository interface {
	ListDetailed(ctx context.Context) ([]model.SongDetail, error)
	FindDetailedByID(ctx context.Context, id int64) (*model.SongDetail, error)
	Search(ctx context.Context, title, artist string) ([]model.SongDetail, error)

	// Multi-row writes run inside a single transaction; the primary row and
	// its join rows succeed or fail as a unit.
	CreateWithRelations(ctx context.Context, song *model.Song, artistIDs, categoryIDs []int64) error
	UpdateWithRelations(ctx context.Context, song *model.Song, artistIDs, categoryIDs []int64) error
	DeleteWithRelations(ctx context.Context, id int64) error
}

type pgSongRepository struct {
	db *sql.DB
}

func NewPgSongRepository(db *sql.DB) SongRepository {
	return &pgSongRepository{db: db}
}

// detailQuery flattens the relations: one artist name/photo per song, the
// category names deduplicated and comma-joined, and the single playlist
// title. Joins whose parent row was deleted drop out naturally.
const detailQuery = `
	SELECT s.id, s.title, s.album, s.duration, s.path_song, s.image_path,
	       max(a.name) AS artist_name,
	       max(a.photo) AS artist_photo,
	       string_agg(DISTINCT c.name, ', ') AS category_name,
	       max(p.title) AS playlist_title
	FROM songs s
	LEFT JOIN song_artists sa ON s.id = sa.song_id
	LEFT JOIN artists a ON sa.artist_id = a.id
	LEFT JOIN song_categories sc ON s.id = sc.song_id
	LEFT JOIN categories c ON sc.category_id = c.id
	LEFT JOIN playlists p ON s.playlist_id = p.id`

const detailGroupBy = ` GROUP BY s.id, s.title, s.album, s.duration, s.path_song, s.image_path`

func scanSongDetails(rows *sql.Rows) ([]model.SongDetail, error) {
	var songs []model.SongDetail
	for rows.Next() {
		var s model.SongDetail
		if err := rows.Scan(&s.ID, &s.Title, &s.Album, &s.Duration, &s.PathSong, &s.ImagePath,
			&s.ArtistName, &s.ArtistPhoto, &s.CategoryName, &s.PlaylistTitle); err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

func (r *pgSongRepository) ListDetailed(ctx context.Context) ([]model.SongDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailQuery+detailGroupBy+` ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("pgSongRepository.ListDetailed: %w", err)
	}
	defer rows.Close()

	songs, err := scanSongDetails(rows)
	if err != nil {
		return nil, fmt.Errorf("pgSongRepository.ListDetailed scan: %w", err)
	}
	return songs, nil
}

func (r *pgSongRepository) FindDetailedByID(ctx context.Context, id int64) (*model.SongDetail, error) {
	query := detailQuery + ` WHERE s.id = $1` + detailGroupBy
	s := &model.SongDetail{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Title, &s.Album, &s.Duration, &s.PathSong, &s.ImagePath,
		&s.ArtistName, &s.ArtistPhoto, &s.CategoryName, &s.PlaylistTitle,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSongRepository.FindDetailedByID: %w", err)
	}
	return s, nil
}

// Search filters by case-insensitive substring on title and/or artist name;
// absent filters are not applied.
func (r *pgSongRepository) Search(ctx context.Context, title, artist string) ([]model.SongDetail, error) {
	query := detailQuery + ` WHERE 1=1`
	args := []interface{}{}

	if title != "" {
		args = append(args, "%"+title+"%")
		query += fmt.Sprintf(" AND s.title ILIKE $%d", len(args))
	}
	if artist != "" {
		args = append(args, "%"+artist+"%")
		query += fmt.Sprintf(" AND a.name ILIKE $%d", len(args))
	}
	query += detailGroupBy + ` ORDER BY s.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgSongRepository.Search: %w", err)
	}
	defer rows.Close()

	songs, err := scanSongDetails(rows)
	if err != nil {
		return nil, fmt.Errorf("pgSongRepository.Search scan: %w", err)
	}
	return songs, nil
}

func (r *pgSongRepository) CreateWithRelations(ctx context.Context, song *model.Song, artistIDs, categoryIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgSongRepository.CreateWithRelations begin: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	query := `INSERT INTO songs (title, album, duration, path_song, image_path, playlist_id)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, query,
		song.Title, song.Album, song.Duration, song.PathSong, song.ImagePath, song.PlaylistID,
	).Scan(&song.ID, &song.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgSongRepository.CreateWithRelations insert: %w", err)
	}

	if err := insertSongJoins(ctx, tx, song.ID, artistIDs, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgSongRepository.CreateWithRelations commit: %w", err)
	}
	return nil
}

// UpdateWithRelations replaces the song row and its entire join set: every
// existing join row is deleted and the new set inserted from scratch, so the
// stored relations exactly match the input with no stale links.
func (r *pgSongRepository) UpdateWithRelations(ctx context.Context, song *model.Song, artistIDs, categoryIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgSongRepository.UpdateWithRelations begin: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE songs SET title = $1, album = $2, duration = $3, path_song = $4, image_path = $5
	          WHERE id = $6`
	res, err := tx.ExecContext(ctx, query,
		song.Title, song.Album, song.Duration, song.PathSong, song.ImagePath, song.ID)
	if err != nil {
		return fmt.Errorf("pgSongRepository.UpdateWithRelations update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}

	if err := deleteSongJoins(ctx, tx, song.ID); err != nil {
		return err
	}
	if err := insertSongJoins(ctx, tx, song.ID, artistIDs, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgSongRepository.UpdateWithRelations commit: %w", err)
	}
	return nil
}

// DeleteWithRelations removes the join rows before the song row so no
// orphaned join rows survive; referential integrity would reject the
// opposite order anyway.
func (r *pgSongRepository) DeleteWithRelations(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgSongRepository.DeleteWithRelations begin: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSongJoins(ctx, tx, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites WHERE song_id = $1`, id); err != nil {
		return fmt.Errorf("pgSongRepository.DeleteWithRelations favorites: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgSongRepository.DeleteWithRelations song: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgSongRepository.DeleteWithRelations commit: %w", err)
	}
	return nil
}

func insertSongJoins(ctx context.Context, tx *sql.Tx, songID int64, artistIDs, categoryIDs []int64) error {
	for _, artistID := range artistIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO song_artists (song_id, artist_id) VALUES ($1, $2)`, songID, artistID); err != nil {
			return fmt.Errorf("insertSongJoins artist %d: %w", artistID, err)
		}
	}
	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO song_categories (song_id, category_id) VALUES ($1, $2)`, songID, categoryID); err != nil {
			return fmt.Errorf("insertSongJoins category %d: %w", categoryID, err)
		}
	}
	return nil
}

func deleteSongJoins(ctx context.Context, tx *sql.Tx, songID int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM song_artists WHERE song_id = $1`, songID); err != nil {
		return fmt.Errorf("deleteSongJoins artists: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM song_categories WHERE song_id = $1`, songID); err != nil {
		return fmt.Errorf("deleteSongJoins categories: %w", err)
	}
	return nil
}
