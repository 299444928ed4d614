package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"melodia/internal/common"
	"melodia/internal/domain/model"
)

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	UpdateTitle(ctx context.Context, id int64, title string) error
	Delete(ctx context.Context, id int64) error
	FindByIDWithSongs(ctx context.Context, id int64) (*model.PlaylistWithSongs, error)
	ListByUserWithSongs(ctx context.Context, userID int64) ([]model.PlaylistWithSongs, error)
	ListByOtherUsers(ctx context.Context, excludeUserID int64) ([]model.Playlist, error)
	// SetSongPlaylist points a song at a playlist (or at none, with nil).
	// Assigning a song already in another playlist moves it; membership is
	// single-playlist by construction.
	SetSongPlaylist(ctx context.Context, songID int64, playlistID *int64) error
	// FindSongPlaylist reports which playlist a song currently belongs to,
	// nil when it is in none.
	FindSongPlaylist(ctx context.Context, songID int64) (*int64, error)
}

type pgPlaylistRepository struct {
	db *sql.DB
}

func NewPgPlaylistRepository(db *sql.DB) PlaylistRepository {
	return &pgPlaylistRepository{db: db}
}

func (r *pgPlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	query := `INSERT INTO playlists (user_id, title) VALUES ($1, $2) RETURNING id, color`
	err := r.db.QueryRowContext(ctx, query, playlist.UserID, playlist.Title).
		Scan(&playlist.ID, &playlist.Color)
	if err != nil {
		return fmt.Errorf("pgPlaylistRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPlaylistRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE playlists SET title = $1 WHERE id = $2`, title, id)
	if err != nil {
		return fmt.Errorf("pgPlaylistRepository.UpdateTitle: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgPlaylistRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgPlaylistRepository.Delete begin: %w", err)
	}
	defer tx.Rollback()

	// Member songs fall back to no playlist rather than dangling.
	if _, err := tx.ExecContext(ctx, `UPDATE songs SET playlist_id = NULL WHERE playlist_id = $1`, id); err != nil {
		return fmt.Errorf("pgPlaylistRepository.Delete detach songs: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgPlaylistRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgPlaylistRepository.Delete commit: %w", err)
	}
	return nil
}

func (r *pgPlaylistRepository) songsForPlaylist(ctx context.Context, playlistID int64) ([]model.SongSummary, error) {
	query := `SELECT id, title, album, duration, path_song, image_path
	          FROM songs WHERE playlist_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	songs := []model.SongSummary{}
	for rows.Next() {
		var s model.SongSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Album, &s.Duration, &s.PathSong, &s.ImagePath); err != nil {
			return nil, err
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

func (r *pgPlaylistRepository) FindByIDWithSongs(ctx context.Context, id int64) (*model.PlaylistWithSongs, error) {
	p := &model.PlaylistWithSongs{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, color FROM playlists WHERE id = $1`, id).
		Scan(&p.ID, &p.UserID, &p.Title, &p.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPlaylistRepository.FindByIDWithSongs: %w", err)
	}

	songs, err := r.songsForPlaylist(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("pgPlaylistRepository.FindByIDWithSongs songs: %w", err)
	}
	p.Songs = songs
	p.SongCount = len(songs)
	return p, nil
}

func (r *pgPlaylistRepository) ListByUserWithSongs(ctx context.Context, userID int64) ([]model.PlaylistWithSongs, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, color FROM playlists WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("pgPlaylistRepository.ListByUserWithSongs: %w", err)
	}
	defer rows.Close()

	var playlists []model.PlaylistWithSongs
	for rows.Next() {
		var p model.PlaylistWithSongs
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Color); err != nil {
			return nil, fmt.Errorf("pgPlaylistRepository.ListByUserWithSongs scan: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range playlists {
		songs, err := r.songsForPlaylist(ctx, playlists[i].ID)
		if err != nil {
			return nil, fmt.Errorf("pgPlaylistRepository.ListByUserWithSongs songs: %w", err)
		}
		playlists[i].Songs = songs
		playlists[i].SongCount = len(songs)
	}
	return playlists, nil
}

func (r *pgPlaylistRepository) ListByOtherUsers(ctx context.Context, excludeUserID int64) ([]model.Playlist, error) {
	query := `SELECT p.id, p.user_id, p.title, p.color, u.first_name, u.last_name
	          FROM playlists p
	          JOIN users u ON p.user_id = u.id
	          WHERE p.user_id != $1
	          ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, query, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("pgPlaylistRepository.ListByOtherUsers: %w", err)
	}
	defer rows.Close()

	var playlists []model.Playlist
	for rows.Next() {
		var p model.Playlist
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Color, &p.OwnerFirstName, &p.OwnerLastName); err != nil {
			return nil, fmt.Errorf("pgPlaylistRepository.ListByOtherUsers scan: %w", err)
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

func (r *pgPlaylistRepository) FindSongPlaylist(ctx context.Context, songID int64) (*int64, error) {
	var playlistID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT playlist_id FROM songs WHERE id = $1`, songID).Scan(&playlistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPlaylistRepository.FindSongPlaylist: %w", err)
	}
	if !playlistID.Valid {
		return nil, nil
	}
	id := playlistID.Int64
	return &id, nil
}

func (r *pgPlaylistRepository) SetSongPlaylist(ctx context.Context, songID int64, playlistID *int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE songs SET playlist_id = $1 WHERE id = $2`, playlistID, songID)
	if err != nil {
		return fmt.Errorf("pgPlaylistRepository.SetSongPlaylist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
