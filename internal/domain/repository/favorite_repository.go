package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"melodia/internal/common"
	"melodia/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type FavoriteRepository interface {
	// Add fails with a conflict on a duplicate (user, song) pair; the table's
	// primary key enforces uniqueness.
	Add(ctx context.Context, userID, songID int64) error
	Remove(ctx context.Context, userID, songID int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.FavoriteSong, error)
	Exists(ctx context.Context, userID, songID int64) (bool, error)
}

type pgFavoriteRepository struct {
	db *sql.DB
}

func NewPgFavoriteRepository(db *sql.DB) FavoriteRepository {
	return &pgFavoriteRepository{db: db}
}

func (r *pgFavoriteRepository) Add(ctx context.Context, userID, songID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, song_id) VALUES ($1, $2)`, userID, songID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // already favorited
				return fmt.Errorf("song is already in favorites: %w", common.ErrConflict)
			case "23503": // user or song does not exist
				return fmt.Errorf("user or song not found: %w", common.ErrNotFound)
			}
		}
		return fmt.Errorf("pgFavoriteRepository.Add: %w", err)
	}
	return nil
}

func (r *pgFavoriteRepository) Remove(ctx context.Context, userID, songID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND song_id = $2`, userID, songID)
	if err != nil {
		return fmt.Errorf("pgFavoriteRepository.Remove: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgFavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]model.FavoriteSong, error) {
	query := `SELECT s.id, s.title, s.album, s.path_song, s.image_path,
	                 max(a.name) AS artist_name, max(a.photo) AS artist_photo
	          FROM songs s
	          JOIN favorites f ON s.id = f.song_id
	          LEFT JOIN song_artists sa ON s.id = sa.song_id
	          LEFT JOIN artists a ON sa.artist_id = a.id
	          WHERE f.user_id = $1
	          GROUP BY s.id, s.title, s.album, s.path_song, s.image_path
	          ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgFavoriteRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var favorites []model.FavoriteSong
	for rows.Next() {
		var f model.FavoriteSong
		if err := rows.Scan(&f.ID, &f.Title, &f.Album, &f.PathSong, &f.ImagePath,
			&f.ArtistName, &f.ArtistPhoto); err != nil {
			return nil, fmt.Errorf("pgFavoriteRepository.ListByUser scan: %w", err)
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

func (r *pgFavoriteRepository) Exists(ctx context.Context, userID, songID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM favorites WHERE user_id = $1 AND song_id = $2`, userID, songID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("pgFavoriteRepository.Exists: %w", err)
	}
	return true, nil
}
