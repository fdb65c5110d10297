package queue

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/R4v3ns/back-end-Proyecto/internal/songs"
)

// handleGetQueue returns the caller's queue, creating an empty one on first
// access. currentIndex is -1 whenever the stored cursor does not point at a
// formatted item.
func (s *Server) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	q, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		log.Printf("queue: get queue: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	items, err := s.formatItems(ctx, q.Order)
	if err != nil {
		log.Printf("queue: get queue format: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	currentIndex := -1
	if q.CurrentPosition >= 0 && q.CurrentPosition < len(items) {
		currentIndex = q.CurrentPosition
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"items":        items,
		"currentIndex": currentIndex,
	})
}

// handleAddToQueue inserts one track. position "next" queues it at the head,
// an explicit index splices at that index (clamped), anything else appends.
// Duplicates are allowed: the same track may sit at several positions.
func (s *Server) handleAddToQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var body struct {
		TrackID  *int64 `json:"trackId"`
		Position string `json:"position"`
		Index    *int   `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.TrackID == nil || *body.TrackID <= 0 {
		writeError(w, http.StatusBadRequest, "trackId is required and must be a positive number")
		return
	}
	trackID := *body.TrackID

	// Existence check before any mutation.
	if _, err := s.catalog.ByID(ctx, trackID); err != nil {
		if errors.Is(err, songs.ErrNotFound) {
			writeError(w, http.StatusNotFound, "track not found")
			return
		}
		log.Printf("queue: add track lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	q, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		log.Printf("queue: add track load: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	idx := insertionIndex(body.Index, body.Position, len(q.Order))
	q.Order = splice(q.Order, idx, trackID)

	if err := s.store.Save(ctx, q); err != nil {
		log.Printf("queue: add track save: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	items, err := s.formatItems(ctx, q.Order)
	if err != nil {
		log.Printf("queue: add track format: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	var inserted *Item
	for i := range items {
		if items[i].Position == idx {
			inserted = &items[i]
			break
		}
	}
	if inserted == nil {
		// Cannot happen: the track was just verified against the catalog.
		log.Printf("queue: add track: inserted item missing at index %d", idx)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.publishQueueUpdated(ctx, q)

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":   true,
		"item": inserted,
	})
}

// handleAddMultipleToQueue splices a batch at the head ("next") or the tail.
// The whole batch is validated against the catalog first; one unknown id
// rejects the request without touching the queue.
func (s *Server) handleAddMultipleToQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var body struct {
		TrackIDs []int64 `json:"trackIds"`
		Position string  `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(body.TrackIDs) == 0 {
		writeError(w, http.StatusBadRequest, "trackIds is required and must be a non-empty array")
		return
	}

	found, err := s.catalog.ByIDs(ctx, distinct(body.TrackIDs))
	if err != nil {
		log.Printf("queue: add multiple lookup: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	for _, id := range body.TrackIDs {
		if _, ok := found[id]; !ok {
			writeError(w, http.StatusNotFound, "one or more tracks were not found")
			return
		}
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	q, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		log.Printf("queue: add multiple load: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	idx := insertionIndex(nil, body.Position, len(q.Order))
	q.Order = splice(q.Order, idx, body.TrackIDs...)

	if err := s.store.Save(ctx, q); err != nil {
		log.Printf("queue: add multiple save: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	items, err := s.formatItems(ctx, q.Order)
	if err != nil {
		log.Printf("queue: add multiple format: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	inserted := make([]Item, 0, len(body.TrackIDs))
	for _, it := range items {
		if it.Position >= idx && it.Position < idx+len(body.TrackIDs) {
			inserted = append(inserted, it)
		}
	}

	s.publishQueueUpdated(ctx, q)

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":    true,
		"items": inserted,
	})
}

// handleRemoveFromQueue has two modes: with no itemIds it clears the whole
// queue, with itemIds it deletes the slots they resolve to. Unresolvable ids
// are skipped; the request only fails when nothing at all resolves.
func (s *Server) handleRemoveFromQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	// The body is optional: absent, empty or malformed all mean "clear".
	var body struct {
		ItemIDs []string `json:"itemIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		body.ItemIDs = nil
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	q, err := s.store.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("queue: remove load: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if len(q.Order) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if len(body.ItemIDs) == 0 {
		q.Order = []int64{}
		q.CurrentSongID = nil
		q.CurrentPosition = 0
		if err := s.store.Save(ctx, q); err != nil {
			log.Printf("queue: clear save: %v", err)
			writeError(w, http.StatusInternalServerError, "database error")
			return
		}
		s.publishQueueUpdated(ctx, q)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	items, err := s.formatItems(ctx, q.Order)
	if err != nil {
		log.Printf("queue: remove format: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	indices := resolveRemovals(q.Order, items, body.ItemIDs)
	if len(indices) == 0 {
		writeError(w, http.StatusBadRequest, "no valid items to remove")
		return
	}

	q.Order = removeIndices(q.Order, indices)
	q.CurrentPosition = clampCursor(q.CurrentPosition, len(q.Order))

	if err := s.store.Save(ctx, q); err != nil {
		log.Printf("queue: remove save: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishQueueUpdated(ctx, q)
	w.WriteHeader(http.StatusNoContent)
}

// handleReorderQueue moves the first occurrence of the referenced track to
// newPosition and returns the freshly formatted queue.
func (s *Server) handleReorderQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var body struct {
		ItemID      string `json:"itemId"`
		NewPosition *int   `json:"newPosition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.ItemID == "" || body.NewPosition == nil {
		writeError(w, http.StatusBadRequest, "itemId and newPosition are required")
		return
	}
	if *body.NewPosition < 0 {
		writeError(w, http.StatusBadRequest, "newPosition must be >= 0")
		return
	}

	trackID, ok := parseLeadingTrackID(body.ItemID)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid itemId")
		return
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	q, err := s.store.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "queue is empty")
		return
	}
	if err != nil {
		log.Printf("queue: reorder load: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if len(q.Order) == 0 {
		writeError(w, http.StatusNotFound, "queue is empty")
		return
	}

	order, cursor, _, _, found := reorder(q.Order, trackID, *body.NewPosition, q.CurrentPosition)
	if !found {
		writeError(w, http.StatusNotFound, "item not found in queue")
		return
	}
	q.Order = order
	q.CurrentPosition = cursor

	if err := s.store.Save(ctx, q); err != nil {
		log.Printf("queue: reorder save: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	items, err := s.formatItems(ctx, q.Order)
	if err != nil {
		log.Printf("queue: reorder format: %v", err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.publishQueueUpdated(ctx, q)

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"items": items,
	})
}
