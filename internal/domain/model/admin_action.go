package model

import "time"

// Action types recorded in the append-only admin audit log.
const (
	ActionCreateSong     = "create_song"
	ActionUpdateSong     = "update_song"
	ActionDeleteSong     = "delete_song"
	ActionCreateArtist   = "create_artist"
	ActionUpdateArtist   = "update_artist"
	ActionDeleteArtist   = "delete_artist"
	ActionCreateCategory = "create_category"
	ActionUpdateCategory = "update_category"
	ActionDeleteCategory = "delete_category"
)

type AdminAction struct {
	ID         int64     `json:"id"`
	AdminID    int64     `json:"admin_id"`
	ActionType string    `json:"action_type"`
	TargetID   int64     `json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreationStats struct {
	SongsCreated   int `json:"songs_created"`
	ArtistsCreated int `json:"artists_created"`
}

// RecentAction is an audit row joined with the name of the entity it touched,
// when that entity still exists.
type RecentAction struct {
	ActionType string    `json:"action_type"`
	TargetName *string   `json:"target_name"`
	CreatedAt  time.Time `json:"created_at"`
}
