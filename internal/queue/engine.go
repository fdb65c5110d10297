package queue

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/R4v3ns/back-end-Proyecto/internal/songs"
)

// The functions in this file are the queue mutation engine. They are pure:
// they never touch storage or the catalog, so every ordering rule can be
// tested without I/O.

// displayID builds the client-facing id of the slot at index.
func displayID(trackID int64, index int) string {
	return fmt.Sprintf("%d-%d", trackID, index)
}

// parseDisplayID accepts the strict "<trackId>-<index>" form.
func parseDisplayID(id string) (trackID int64, index int, ok bool) {
	head, tail, found := strings.Cut(id, "-")
	if !found {
		return 0, 0, false
	}
	trackID, err := strconv.ParseInt(head, 10, 64)
	if err != nil || trackID < 0 {
		return 0, 0, false
	}
	index, err = strconv.Atoi(tail)
	if err != nil || index < 0 {
		return 0, 0, false
	}
	return trackID, index, true
}

// parseLeadingTrackID accepts any "<trackId>-..." form and extracts the track
// id. Reorder requests only need the track reference, not the position part.
func parseLeadingTrackID(id string) (int64, bool) {
	head, _, found := strings.Cut(id, "-")
	if !found {
		return 0, false
	}
	trackID, err := strconv.ParseInt(head, 10, 64)
	if err != nil || trackID < 0 {
		return 0, false
	}
	return trackID, true
}

// insertionIndex maps the request's optional explicit index and position mode
// onto a concrete splice index for a queue of length n. An explicit index wins
// and is clamped to [0, n]; "next" means the head of the queue; anything else
// (including "end" and an absent position) appends.
func insertionIndex(explicit *int, position string, n int) int {
	if explicit != nil {
		idx := *explicit
		if idx < 0 {
			idx = 0
		}
		if idx > n {
			idx = n
		}
		return idx
	}
	if position == positionNext {
		return 0
	}
	return n
}

// splice inserts ids at index idx, preserving their order. idx must already be
// clamped to [0, len(order)].
func splice(order []int64, idx int, ids ...int64) []int64 {
	out := make([]int64, 0, len(order)+len(ids))
	out = append(out, order[:idx]...)
	out = append(out, ids...)
	out = append(out, order[idx:]...)
	return out
}

// buildItems projects order into display items using an already-resolved track
// map. Slots whose track id is missing from tracks are dropped, so the result
// can be shorter than order. Item positions always refer to indices in order,
// not in the returned slice.
func buildItems(order []int64, tracks map[int64]songs.Song, now time.Time) []Item {
	items := make([]Item, 0, len(order))
	for idx, trackID := range order {
		track, ok := tracks[trackID]
		if !ok {
			// Deleted from the catalog after it was queued.
			continue
		}
		items = append(items, Item{
			ID:       displayID(trackID, idx),
			Track:    track,
			Position: idx,
			AddedAt:  now,
		})
	}
	return items
}

// resolveRemovals maps client display ids onto indices in order. Clients may
// hold stale ids (the id embeds a position that mutations invalidate), so
// resolution is deliberately permissive, in priority order:
//
//  1. exact match against a freshly formatted item's id;
//  2. "<trackId>-<index>" parses and order[index] still holds trackId;
//  3. the index part is treated as an occurrence offset among all positions
//     holding trackId, falling back to the first occurrence;
//  4. otherwise the id is skipped.
//
// The result is deduplicated and sorted in descending index order so callers
// can delete without invalidating the remaining indices.
func resolveRemovals(order []int64, items []Item, itemIDs []string) []int {
	seen := map[int]bool{}

	for _, raw := range itemIDs {
		if idx, ok := resolveOne(order, items, raw); ok {
			seen[idx] = true
		}
	}

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	return indices
}

func resolveOne(order []int64, items []Item, raw string) (int, bool) {
	for _, it := range items {
		if it.ID == raw {
			return it.Position, true
		}
	}

	trackID, expected, ok := parseDisplayID(raw)
	if !ok {
		return 0, false
	}

	if expected < len(order) && order[expected] == trackID {
		return expected, true
	}

	var occurrences []int
	for idx, id := range order {
		if id == trackID {
			occurrences = append(occurrences, idx)
		}
	}
	if len(occurrences) == 0 {
		return 0, false
	}
	if expected < len(occurrences) {
		return occurrences[expected], true
	}
	return occurrences[0], true
}

// removeIndices deletes the given indices from order. indices must be sorted
// in descending order (resolveRemovals guarantees this).
func removeIndices(order []int64, indices []int) []int64 {
	out := append([]int64(nil), order...)
	for _, idx := range indices {
		if idx < 0 || idx >= len(out) {
			continue
		}
		out = append(out[:idx], out[idx+1:]...)
	}
	return out
}

// clampCursor pulls an out-of-range cursor back to the last valid index. An
// empty queue leaves the cursor at 0; readers report -1 for "no current item"
// whenever the cursor is out of range.
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
		if cursor < 0 {
			cursor = 0
		}
	}
	return cursor
}

// reorder moves the first occurrence of trackID to newPos (clamped to the
// queue length after removal) and keeps the cursor pointing at the same
// logical item: the cursor follows the moved slot, and shifts by one when it
// sits strictly between the old and new positions.
func reorder(order []int64, trackID int64, newPos, cursor int) (out []int64, newCursor, from, to int, found bool) {
	from = -1
	for idx, id := range order {
		if id == trackID {
			from = idx
			break
		}
	}
	if from == -1 {
		return order, cursor, -1, -1, false
	}

	out = append([]int64(nil), order...)
	out = append(out[:from], out[from+1:]...)

	to = newPos
	if to > len(out) {
		to = len(out)
	}
	out = splice(out, to, trackID)

	newCursor = cursor
	switch {
	case cursor == from:
		newCursor = to
	case cursor > from && cursor <= to:
		newCursor--
	case cursor < from && cursor >= to:
		newCursor++
	}
	return out, newCursor, from, to, true
}

// distinct returns the unique track ids of order, first-seen order preserved,
// for a single batched catalog lookup.
func distinct(order []int64) []int64 {
	seen := map[int64]bool{}
	out := make([]int64, 0, len(order))
	for _, id := range order {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
