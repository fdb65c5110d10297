package queue

import (
	"time"

	"github.com/R4v3ns/back-end-Proyecto/internal/songs"
)

// Queue is the persisted playback queue of one user. Order holds track ids in
// play order; the same track may appear at several positions. CurrentPosition
// is the cursor into Order and may be out of range after a mutation until the
// next clamp.
type Queue struct {
	UserID          string
	Order           []int64
	CurrentPosition int
	CurrentSongID   *int64
}

// Item is the display projection of one queue slot. It is derived at read
// time and never persisted. ID is "<trackId>-<position>" and therefore changes
// whenever the slot moves; clients are expected to treat it as ephemeral.
// AddedAt is synthesized at format time because per-slot add timestamps are
// not stored.
type Item struct {
	ID       string     `json:"id"`
	Track    songs.Song `json:"track"`
	Position int        `json:"position"`
	AddedAt  time.Time  `json:"addedAt"`
}

const (
	positionNext = "next"
	positionEnd  = "end"
)
