package model

import "time"

type Song struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Album      string    `json:"album"`
	Duration   int       `json:"duration"` // seconds
	PathSong   string    `json:"path_song"`
	ImagePath  string    `json:"image_path"`
	PlaylistID *int64    `json:"playlist_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SongDetail is the flattened read shape: one artist name per song, the
// category names comma-joined and deduplicated, and at most one playlist
// title.
type SongDetail struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Album         string  `json:"album"`
	Duration      int     `json:"duration"`
	PathSong      string  `json:"path_song"`
	ImagePath     string  `json:"image_path"`
	ArtistName    *string `json:"artist_name"`
	ArtistPhoto   *string `json:"artist_photo"`
	CategoryName  *string `json:"category_name"`
	PlaylistTitle *string `json:"playlist_title"`
}

// SongSummary is the nested shape embedded in artist and playlist reads.
type SongSummary struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Album     string `json:"album,omitempty"`
	Duration  int    `json:"duration,omitempty"`
	PathSong  string `json:"path_song,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
}
