package driverstatus

import (
	"sort"
	"sync"
	"time"

	"github.com/josepaz/rumbo/internal/eventbus"
)

// Progress mirrors the last progress report received from a driver.
type Progress struct {
	Event      string    `json:"event"`
	RouteID    string    `json:"route_id,omitempty"`
	ShipmentID string    `json:"shipment_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Status captures the current known state of a driver on the road.
type Status struct {
	DriverID     string   `json:"driver_id"`
	Vehicle      string   `json:"vehicle,omitempty"`
	Zone         string   `json:"zone,omitempty"`
	RouteID      string   `json:"route_id,omitempty"`
	StopsDone    int      `json:"stops_done"`
	LastProgress Progress `json:"last_progress"`
}

// Report pairs a progress update with the driver that sent it, for observers
// watching the live feed.
type Report struct {
	DriverID string
	Progress Progress
}

type Filter struct {
	Zone    string
	Vehicle string
}

type Store interface {
	Set(Status)
	List(Filter) []Status
	RecordProgress(id string, p Progress)
	Watch() <-chan Report
}

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Status
	feed *eventbus.TypedBus[Report]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: map[string]Status{},
		feed: eventbus.NewTyped[Report](),
	}
}

func (s *MemoryStore) Set(st Status) {
	s.mu.Lock()
	s.data[st.DriverID] = st
	s.mu.Unlock()
}

func (s *MemoryStore) RecordProgress(id string, p Progress) {
	s.mu.Lock()
	st := s.data[id]
	if st.DriverID == "" {
		st.DriverID = id
	}
	st.LastProgress = p
	switch p.Event {
	case "start":
		st.RouteID = p.RouteID
		st.StopsDone = 0
	case "stop_completed":
		st.StopsDone++
	case "route_completed":
		st.RouteID = ""
	}
	s.data[id] = st
	s.mu.Unlock()

	s.feed.Publish(Report{DriverID: id, Progress: p})
}

// Watch returns a channel receiving every progress report as it is recorded.
// Watchers that fall behind miss reports rather than blocking ingestion.
func (s *MemoryStore) Watch() <-chan Report {
	return s.feed.Subscribe()
}

// Close shuts the live feed down. Reports recorded afterwards are still
// stored but no longer broadcast.
func (s *MemoryStore) Close() {
	s.feed.Close()
}

func (s *MemoryStore) List(f Filter) []Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Status, 0, len(s.data))
	for _, st := range s.data {
		if f.Zone != "" && st.Zone != f.Zone {
			continue
		}
		if f.Vehicle != "" && st.Vehicle != f.Vehicle {
			continue
		}
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].DriverID < res[j].DriverID })
	return res
}
