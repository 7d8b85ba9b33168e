// Package queue holds pending shipments and decides when enough demand has
// accumulated in a (vehicle class, zone) partition to justify building routes.
package queue

import (
	"sort"
	"sync"

	"github.com/josepaz/rumbo/core/model"
)

// Queue is the in-memory set of shipments waiting to be grouped. The engine
// drains it at the start of each optimization run.
type Queue struct {
	mu        sync.Mutex
	shipments map[string]model.Shipment
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{shipments: make(map[string]model.Shipment)}
}

// Push adds or replaces a shipment. Only pending shipments belong here;
// anything else is ignored.
func (q *Queue) Push(s model.Shipment) {
	if s.State != model.StatePending {
		return
	}
	q.mu.Lock()
	q.shipments[s.ID] = s
	q.mu.Unlock()
}

// Remove drops shipments that were promoted into a route.
func (q *Queue) Remove(ids ...string) {
	q.mu.Lock()
	for _, id := range ids {
		delete(q.shipments, id)
	}
	q.mu.Unlock()
}

// Pending returns a stable snapshot ordered by creation time, oldest first.
func (q *Queue) Pending() []model.Shipment {
	q.mu.Lock()
	out := make([]model.Shipment, 0, len(q.shipments))
	for _, s := range q.shipments {
		out = append(out, s)
	}
	q.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len reports the number of queued shipments.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.shipments)
}
