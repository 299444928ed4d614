package model

type Artist struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Photo *string `json:"photo"`

	// Populated by the nested read queries; nil on bare rows.
	Songs []SongSummary `json:"songs,omitempty"`
}
