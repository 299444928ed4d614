package model

type Playlist struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Title  string `json:"title"`
	Color  string `json:"color"`

	// Owner display fields, only set by the cross-user listing.
	OwnerFirstName string `json:"first_name,omitempty"`
	OwnerLastName  string `json:"last_name,omitempty"`
}

// PlaylistWithSongs carries the playlist together with the songs whose
// playlist_id points at it. A song belongs to at most one playlist.
type PlaylistWithSongs struct {
	Playlist
	Songs     []SongSummary `json:"songs"`
	SongCount int           `json:"song_count"`
}
