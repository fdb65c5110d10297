package songs

import (
	"time"
)

// Song is a catalog entry with playable metadata. Duration is in seconds.
type Song struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album,omitempty"`
	Duration  int       `json:"duration"`
	CoverURL  string    `json:"coverUrl"`
	AudioURL  string    `json:"audioUrl"`
	YoutubeID string    `json:"youtubeId,omitempty"`
	IsExample bool      `json:"isExample"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Artist aggregates catalog rows by artist name.
type Artist struct {
	Name      string `json:"name"`
	SongCount int    `json:"songCount"`
	CoverURL  string `json:"coverUrl"`
}

// Album aggregates catalog rows by album name.
type Album struct {
	Name      string `json:"name"`
	Artist    string `json:"artist"`
	SongCount int    `json:"songCount"`
	CoverURL  string `json:"coverUrl"`
}
