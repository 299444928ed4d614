package repository

import (
	"context"
	"database/sql"
	"fmt"

	"melodia/internal/domain/model"
)

// DashboardSong is a recent song row with its artist names concatenated.
type DashboardSong struct {
	Title      string
	Duration   int
	ArtistName string
}

// DashboardArtist is an artist row with its song count.
type DashboardArtist struct {
	Name      string
	SongCount int
}

// AdminRepository covers the append-only audit log and the aggregate queries
// behind the admin dashboard.
type AdminRepository interface {
	LogAction(ctx context.Context, adminID int64, actionType string, targetID int64) error
	CreationStats(ctx context.Context, adminID int64) (*model.CreationStats, error)
	RecentActions(ctx context.Context, adminID int64, limit int) ([]model.RecentAction, error)

	Counts(ctx context.Context) (songs, artists, categories int, err error)
	LastSongs(ctx context.Context, limit int) ([]DashboardSong, error)
	LastArtists(ctx context.Context, limit int) ([]DashboardArtist, error)
}

type pgAdminRepository struct {
	db *sql.DB
}

func NewPgAdminRepository(db *sql.DB) AdminRepository {
	return &pgAdminRepository{db: db}
}

func (r *pgAdminRepository) LogAction(ctx context.Context, adminID int64, actionType string, targetID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admin_actions (admin_id, action_type, target_id) VALUES ($1, $2, $3)`,
		adminID, actionType, targetID)
	if err != nil {
		return fmt.Errorf("pgAdminRepository.LogAction: %w", err)
	}
	return nil
}

func (r *pgAdminRepository) CreationStats(ctx context.Context, adminID int64) (*model.CreationStats, error) {
	stats := &model.CreationStats{}
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FILTER (WHERE action_type = $2),
		        count(*) FILTER (WHERE action_type = $3)
		 FROM admin_actions WHERE admin_id = $1`,
		adminID, model.ActionCreateSong, model.ActionCreateArtist).
		Scan(&stats.SongsCreated, &stats.ArtistsCreated)
	if err != nil {
		return nil, fmt.Errorf("pgAdminRepository.CreationStats: %w", err)
	}
	return stats, nil
}

func (r *pgAdminRepository) RecentActions(ctx context.Context, adminID int64, limit int) ([]model.RecentAction, error) {
	query := `SELECT aa.action_type, aa.created_at,
	                 CASE
	                   WHEN aa.action_type LIKE '%song%' THEN s.title
	                   WHEN aa.action_type LIKE '%artist%' THEN ar.name
	                   WHEN aa.action_type LIKE '%category%' THEN c.name
	                 END AS target_name
	          FROM admin_actions aa
	          LEFT JOIN songs s ON aa.action_type LIKE '%song%' AND aa.target_id = s.id
	          LEFT JOIN artists ar ON aa.action_type LIKE '%artist%' AND aa.target_id = ar.id
	          LEFT JOIN categories c ON aa.action_type LIKE '%category%' AND aa.target_id = c.id
	          WHERE aa.admin_id = $1
	          ORDER BY aa.created_at DESC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, adminID, limit)
	if err != nil {
		return nil, fmt.Errorf("pgAdminRepository.RecentActions: %w", err)
	}
	defer rows.Close()

	var actions []model.RecentAction
	for rows.Next() {
		var a model.RecentAction
		if err := rows.Scan(&a.ActionType, &a.CreatedAt, &a.TargetName); err != nil {
			return nil, fmt.Errorf("pgAdminRepository.RecentActions scan: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

func (r *pgAdminRepository) Counts(ctx context.Context) (songs, artists, categories int, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT (SELECT count(*) FROM songs),
		        (SELECT count(*) FROM artists),
		        (SELECT count(*) FROM categories)`).
		Scan(&songs, &artists, &categories)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("pgAdminRepository.Counts: %w", err)
	}
	return songs, artists, categories, nil
}

func (r *pgAdminRepository) LastSongs(ctx context.Context, limit int) ([]DashboardSong, error) {
	query := `SELECT s.title, s.duration, string_agg(a.name, ', ') AS artist_name
	          FROM songs s
	          JOIN song_artists sa ON sa.song_id = s.id
	          JOIN artists a ON sa.artist_id = a.id
	          GROUP BY s.id, s.title, s.duration, s.created_at
	          ORDER BY s.created_at DESC
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pgAdminRepository.LastSongs: %w", err)
	}
	defer rows.Close()

	var songs []DashboardSong
	for rows.Next() {
		var s DashboardSong
		if err := rows.Scan(&s.Title, &s.Duration, &s.ArtistName); err != nil {
			return nil, fmt.Errorf("pgAdminRepository.LastSongs scan: %w", err)
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

func (r *pgAdminRepository) LastArtists(ctx context.Context, limit int) ([]DashboardArtist, error) {
	query := `SELECT a.name, count(sa.song_id) AS song_count
	          FROM artists a
	          LEFT JOIN song_artists sa ON sa.artist_id = a.id
	          GROUP BY a.id, a.name
	          ORDER BY a.id DESC
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pgAdminRepository.LastArtists: %w", err)
	}
	defer rows.Close()

	var artists []DashboardArtist
	for rows.Next() {
		var a DashboardArtist
		if err := rows.Scan(&a.Name, &a.SongCount); err != nil {
			return nil, fmt.Errorf("pgAdminRepository.LastArtists scan: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}
