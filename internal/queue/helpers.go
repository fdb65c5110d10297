package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// formatItems resolves every distinct track id in order with one catalog
// query and projects the queue into display items.
func (s *Server) formatItems(ctx context.Context, order []int64) ([]Item, error) {
	if len(order) == 0 {
		return []Item{}, nil
	}
	tracks, err := s.catalog.ByIDs(ctx, distinct(order))
	if err != nil {
		return nil, err
	}
	return buildItems(order, tracks, time.Now()), nil
}

func (s *Server) publishEvent(ctx context.Context, event map[string]any) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("queue: marshal event: %v", err)
		return
	}
	if err := s.rdb.Publish(ctx, "broadcast", string(data)).Err(); err != nil {
		log.Printf("queue: publish event: %v", err)
	}
}

func (s *Server) publishQueueUpdated(ctx context.Context, q *Queue) {
	s.publishEvent(ctx, map[string]any{
		"type": "queue.updated",
		"payload": map[string]any{
			"userId":          q.UserID,
			"size":            len(q.Order),
			"currentPosition": q.CurrentPosition,
		},
	})
}
