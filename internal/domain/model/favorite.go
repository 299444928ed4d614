package model

// FavoriteSong is a favorited song joined with its (single flattened) artist.
type FavoriteSong struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Album       string  `json:"album"`
	PathSong    string  `json:"path_song"`
	ImagePath   string  `json:"image_path"`
	ArtistName  *string `json:"artist_name"`
	ArtistPhoto *string `json:"artist_photo"`
}
