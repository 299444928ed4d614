package repository

import (
	"context"
	"database/sql"
	"fmt"

	"melodia/internal/common"
	"melodia/internal/domain/model"
)

type ArtistRepository interface {
	Create(ctx context.Context, artist *model.Artist) error
	Update(ctx context.Context, artist *model.Artist) error
	// DeleteWithRelations removes the artist and every join row referencing
	// it in one transaction; songs themselves are left untouched.
	DeleteWithRelations(ctx context.Context, id int64) error

	ListWithSongs(ctx context.Context) ([]model.Artist, error)
	FindByIDWithSongs(ctx context.Context, id int64) (*model.Artist, error)
	SearchByName(ctx context.Context, name string) ([]model.Artist, error)
	SongsByArtist(ctx context.Context, id int64) ([]model.SongSummary, error)
	ListNames(ctx context.Context) ([]model.Artist, error)
}

type pgArtistRepository struct {
	db *sql.DB
}

func NewPgArtistRepository(db *sql.DB) ArtistRepository {
	return &pgArtistRepository{db: db}
}

func (r *pgArtistRepository) Create(ctx context.Context, artist *model.Artist) error {
	query := `INSERT INTO artists (name, photo) VALUES ($1, $2) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, artist.Name, artist.Photo).Scan(&artist.ID); err != nil {
		return fmt.Errorf("pgArtistRepository.Create: %w", err)
	}
	return nil
}

func (r *pgArtistRepository) Update(ctx context.Context, artist *model.Artist) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE artists SET name = $1, photo = $2 WHERE id = $3`,
		artist.Name, artist.Photo, artist.ID)
	if err != nil {
		return fmt.Errorf("pgArtistRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgArtistRepository) DeleteWithRelations(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgArtistRepository.DeleteWithRelations begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM song_artists WHERE artist_id = $1`, id); err != nil {
		return fmt.Errorf("pgArtistRepository.DeleteWithRelations joins: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgArtistRepository.DeleteWithRelations artist: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgArtistRepository.DeleteWithRelations commit: %w", err)
	}
	return nil
}

// artistSongsQuery folds the left join into one Artist per id with its songs
// nested; artists with no songs keep an empty list.
const artistSongsQuery = `
	SELECT a.id, a.name, a.photo,
	       s.id, s.title, s.album, s.duration, s.path_song, s.image_path
	FROM artists a
	LEFT JOIN song_artists sa ON a.id = sa.artist_id
	LEFT JOIN songs s ON sa.song_id = s.id`

func foldArtistRows(rows *sql.Rows) ([]model.Artist, error) {
	var artists []model.Artist
	index := map[int64]int{}

	for rows.Next() {
		var (
			a         model.Artist
			songID    sql.NullInt64
			title     sql.NullString
			album     sql.NullString
			duration  sql.NullInt64
			pathSong  sql.NullString
			imagePath sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Photo,
			&songID, &title, &album, &duration, &pathSong, &imagePath); err != nil {
			return nil, err
		}

		i, seen := index[a.ID]
		if !seen {
			a.Songs = []model.SongSummary{}
			artists = append(artists, a)
			i = len(artists) - 1
			index[a.ID] = i
		}
		if songID.Valid {
			artists[i].Songs = append(artists[i].Songs, model.SongSummary{
				ID:        songID.Int64,
				Title:     title.String,
				Album:     album.String,
				Duration:  int(duration.Int64),
				PathSong:  pathSong.String,
				ImagePath: imagePath.String,
			})
		}
	}
	return artists, rows.Err()
}

func (r *pgArtistRepository) ListWithSongs(ctx context.Context) ([]model.Artist, error) {
	rows, err := r.db.QueryContext(ctx, artistSongsQuery+` ORDER BY a.name, s.id`)
	if err != nil {
		return nil, fmt.Errorf("pgArtistRepository.ListWithSongs: %w", err)
	}
	defer rows.Close()

	artists, err := foldArtistRows(rows)
	if err != nil {
		return nil, fmt.Errorf("pgArtistRepository.ListWithSongs scan: %w", err)
	}
	return artists, nil
}

func (r *pgArtistRepository) FindByIDWithSongs(ctx context.Context, id int64) (*model.Artist, error) {
	rows, err := r.db.QueryContext(ctx, artistSongsQuery+` WHERE a.id = $1 ORDER BY s.id`, id)
	if err != nil {
		return nil, fmt.Errorf("pgArtistRepository.FindByIDWithSongs: %w", err)
	}
	defer rows.Close()

	artists, err := foldArtistRows(rows)
	if err != nil {
		return nil, fmt.Errorf("pgArtistRepository.FindByIDWithSongs scan: %w", err)
	}
	if len(artists) == 0 {
		return nil, common.ErrNotFound
	}
	return &artists[0], nil
}

func (r *pgArtistRepository) SearchByName(ctx context.Context, name string) ([]model.Artist, error) {
	rows, err := r.db.QueryContext(ctx, artistSongsQuery+` WHERE a.name ILIKE $1 ORDER BY a.name, s.id`, "%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("pgArtistRepository.SearchByName: %w", err)
	}
	defer rows.Close()

	artists, err := foldArtistRows(rows)
	if err != nil {
		return nil, fmt.Errorf("pgArtistRepository.SearchByName scan: %w", err)
	}
	return artists, nil
}

func (r *pgArtistRepository) SongsByArtist(ctx context.Context, id int64) ([]model.SongSummary, error) {
	query := `SELECT s.id, s.title, s.album, s.duration, s.path_song, s.image_path
	          FROM songs s
	          INNER JOIN song_artists sa ON s.id = sa.song_id
	          WHERE sa.artist_id = $1
	          ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("pgArtistRepository.SongsByArtist: %w", err)
	}
	defer rows.Close()

	var songs []model.SongSummary
	for rows.Next() {
		var s model.SongSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Album, &s.Duration, &s.PathSong, &s.ImagePath); err != nil {
			return nil, fmt.Errorf("pgArtistRepository.SongsByArtist scan: %w", err)
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

// ListNames is the lightweight listing used by the admin forms.
func (r *pgArtistRepository) ListNames(ctx context.Context) ([]model.Artist, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM artists ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("pgArtistRepository.ListNames: %w", err)
	}
	defer rows.Close()

	var artists []model.Artist
	for rows.Next() {
		var a model.Artist
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("pgArtistRepository.ListNames scan: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}
