package queue

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
)

func TestUserLocksSerializeDistinctUsers(t *testing.T) {
	var locks userLocks

	// Same user returns the same mutex, different users independent ones.
	unlock := locks.lock("a")
	done := make(chan struct{})
	go func() {
		u := locks.lock("b")
		u()
		close(done)
	}()
	<-done
	unlock()
}

func TestConcurrentAddsAllApplied(t *testing.T) {
	store := newMemStore()
	store.seed(&Queue{UserID: testUser, Order: []int64{}})
	srv := NewServer(store, newMemCatalog(1, 2, 3, 4, 5, 6, 7, 8), nil)

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 1; i <= n; i++ {
		go func(id int) {
			defer wg.Done()
			w := doRequest(t, srv, "POST", "/", map[string]any{"trackId": id})
			if w.Code != http.StatusCreated {
				t.Errorf("add %d: status = %d", id, w.Code)
			}
		}(i)
	}
	wg.Wait()

	q := store.stored(testUser)
	if len(q.Order) != n {
		t.Fatalf("order has %d entries, want %d: %v", len(q.Order), n, q.Order)
	}
	seen := make(map[int64]bool, n)
	for _, id := range q.Order {
		if seen[id] {
			t.Errorf("track %d appears twice: %v", id, q.Order)
		}
		seen[id] = true
	}
}

func TestConcurrentMixedMutations(t *testing.T) {
	store := newMemStore()
	store.seed(&Queue{UserID: testUser, Order: []int64{1, 2, 3, 4}})
	srv := NewServer(store, newMemCatalog(1, 2, 3, 4, 5), nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		doRequest(t, srv, "POST", "/", map[string]any{"trackId": 5})
	}()
	go func() {
		defer wg.Done()
		doRequest(t, srv, "DELETE", "/", map[string]any{"itemIds": []string{fmt.Sprintf("%d-%d", 2, 1)}})
	}()
	wg.Wait()

	q := store.stored(testUser)
	if len(q.Order) != 4 {
		t.Fatalf("order has %d entries, want 4 (one add, one remove): %v", len(q.Order), q.Order)
	}
	for _, id := range q.Order {
		if id == 2 {
			t.Errorf("removed track still present: %v", q.Order)
		}
	}
}
