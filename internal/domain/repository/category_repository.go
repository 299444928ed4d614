package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"melodia/internal/common"
	"melodia/internal/domain/model"
)

type CategoryRepository interface {
	ListAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	// DeleteWithRelations removes the category and its join rows as a unit.
	DeleteWithRelations(ctx context.Context, id int64) error
	SongsByCategory(ctx context.Context, id int64) ([]model.SongSummary, error)
}

type pgCategoryRepository struct {
	db *sql.DB
}

func NewPgCategoryRepository(db *sql.DB) CategoryRepository {
	return &pgCategoryRepository{db: db}
}

func (r *pgCategoryRepository) ListAll(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("pgCategoryRepository.ListAll: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("pgCategoryRepository.ListAll scan: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *pgCategoryRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	c := &model.Category{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCategoryRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *pgCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("pgCategoryRepository.Create: %w", err)
	}
	return nil
}

func (r *pgCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $1 WHERE id = $2`, category.Name, category.ID)
	if err != nil {
		return fmt.Errorf("pgCategoryRepository.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCategoryRepository) DeleteWithRelations(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgCategoryRepository.DeleteWithRelations begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM song_categories WHERE category_id = $1`, id); err != nil {
		return fmt.Errorf("pgCategoryRepository.DeleteWithRelations joins: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCategoryRepository.DeleteWithRelations category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgCategoryRepository.DeleteWithRelations commit: %w", err)
	}
	return nil
}

func (r *pgCategoryRepository) SongsByCategory(ctx context.Context, id int64) ([]model.SongSummary, error) {
	query := `SELECT s.id, s.title, s.album, s.duration, s.path_song, s.image_path
	          FROM songs s
	          INNER JOIN song_categories sc ON s.id = sc.song_id
	          WHERE sc.category_id = $1
	          ORDER BY s.id`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("pgCategoryRepository.SongsByCategory: %w", err)
	}
	defer rows.Close()

	var songs []model.SongSummary
	for rows.Next() {
		var s model.SongSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Album, &s.Duration, &s.PathSong, &s.ImagePath); err != nil {
			return nil, fmt.Errorf("pgCategoryRepository.SongsByCategory scan: %w", err)
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}
