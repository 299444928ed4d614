package database

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		hashed_password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		profile_image TEXT,
		reset_token TEXT,
		reset_token_expires TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK ((reset_token IS NULL) = (reset_token_expires IS NULL))
	)`,
	`CREATE TABLE IF NOT EXISTS artists (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		photo TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS playlists (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '#1DB954'
	)`,
	`CREATE TABLE IF NOT EXISTS songs (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		album TEXT NOT NULL DEFAULT '',
		duration INTEGER NOT NULL DEFAULT 0,
		path_song TEXT NOT NULL,
		image_path TEXT NOT NULL DEFAULT '',
		playlist_id BIGINT REFERENCES playlists(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS song_artists (
		song_id BIGINT NOT NULL REFERENCES songs(id),
		artist_id BIGINT NOT NULL REFERENCES artists(id),
		PRIMARY KEY (song_id, artist_id)
	)`,
	`CREATE TABLE IF NOT EXISTS song_categories (
		song_id BIGINT NOT NULL REFERENCES songs(id),
		category_id BIGINT NOT NULL REFERENCES categories(id),
		PRIMARY KEY (song_id, category_id)
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		song_id BIGINT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, song_id)
	)`,
	`CREATE TABLE IF NOT EXISTS admin_actions (
		id BIGSERIAL PRIMARY KEY,
		admin_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		action_type TEXT NOT NULL,
		target_id BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate applies the schema. Statements are idempotent, so running at every
// startup is safe.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("database.Migrate statement %d: %w", i, err)
		}
	}
	return nil
}
