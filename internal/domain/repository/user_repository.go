package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"melodia/internal/common"
	"melodia/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName, username, email string) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	SetResetToken(ctx context.Context, email, token string, expires time.Time) error
	FindByResetToken(ctx context.Context, token string) (*model.User, error)
	ConsumePasswordReset(ctx context.Context, id int64, token, hashedPassword string) error
	UpdateProfileImage(ctx context.Context, id int64, imageURL *string) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]model.User, error)
	ListProfileImages(ctx context.Context) ([]string, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, first_name, last_name, username, email, hashed_password, role,
	profile_image, reset_token, reset_token_expires, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email,
		&user.HashedPassword, &user.Role, &user.ProfileImage,
		&user.ResetToken, &user.ResetExpires, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (first_name, last_name, username, email, hashed_password, role)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Username, user.Email, user.HashedPassword, user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("email or username already in use: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, err
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("pgUserRepository.FindByEmail: %w", err)
	}
	return user, err
}

func (r *pgUserRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName, username, email string) error {
	query := `UPDATE users
	          SET first_name = $1, last_name = $2, username = $3, email = $4, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, firstName, lastName, username, email, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("email or username already in use: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.UpdateProfile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	query := `UPDATE users SET hashed_password = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, hashedPassword, id); err != nil {
		return fmt.Errorf("pgUserRepository.UpdatePassword: %w", err)
	}
	return nil
}

func (r *pgUserRepository) SetResetToken(ctx context.Context, email, token string, expires time.Time) error {
	query := `UPDATE users SET reset_token = $1, reset_token_expires = $2 WHERE email = $3`
	res, err := r.db.ExecContext(ctx, query, token, expires, email)
	if err != nil {
		return fmt.Errorf("pgUserRepository.SetResetToken: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// FindByResetToken only matches tokens whose expiry has not passed.
func (r *pgUserRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE reset_token = $1 AND reset_token_expires > CURRENT_TIMESTAMP`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, token))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("pgUserRepository.FindByResetToken: %w", err)
	}
	return user, err
}

// ConsumePasswordReset stores the new hash and clears the token pair in one
// statement, so a token can be redeemed at most once even under concurrent
// requests.
func (r *pgUserRepository) ConsumePasswordReset(ctx context.Context, id int64, token, hashedPassword string) error {
	query := `UPDATE users
	          SET hashed_password = $1, reset_token = NULL, reset_token_expires = NULL, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $2 AND reset_token = $3 AND reset_token_expires > CURRENT_TIMESTAMP`
	res, err := r.db.ExecContext(ctx, query, hashedPassword, id, token)
	if err != nil {
		return fmt.Errorf("pgUserRepository.ConsumePasswordReset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrInvalidResetToken
	}
	return nil
}

func (r *pgUserRepository) UpdateProfileImage(ctx context.Context, id int64, imageURL *string) error {
	query := `UPDATE users SET profile_image = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, imageURL, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateProfileImage: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	query := `SELECT id, first_name, last_name, username, email, role, profile_image, created_at, updated_at
	          FROM users ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListAll: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email,
			&u.Role, &u.ProfileImage, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgUserRepository.ListAll scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListProfileImages is the reconciliation snapshot used by the image sweeper.
func (r *pgUserRepository) ListProfileImages(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT profile_image FROM users WHERE profile_image IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.ListProfileImages: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("pgUserRepository.ListProfileImages scan: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
