package library

import (
	"time"

	"github.com/R4v3ns/back-end-Proyecto/internal/songs"
)

// Playlist is a user-owned, ordered collection of catalog songs.
type Playlist struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"isPublic"`
	SongCount   int       `json:"songCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PlaylistSong is one slot of a playlist joined with its catalog metadata.
// Positions are 0-based and contiguous.
type PlaylistSong struct {
	Song     songs.Song `json:"song"`
	Position int        `json:"position"`
	AddedAt  time.Time  `json:"addedAt"`
}
