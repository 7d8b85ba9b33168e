package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// activeRoute is the subset of GET /api/routes/active the simulator needs.
type activeRoute struct {
	ID     string `json:"id"`
	State  string `json:"state"`
	Driver struct {
		ID string `json:"id"`
	} `json:"driver"`
	Stops []struct {
		ShipmentID string `json:"shipment_id"`
	} `json:"stops"`
}

type progressReport struct {
	DriverID   string `json:"driver_id"`
	RouteID    string `json:"route_id"`
	ShipmentID string `json:"shipment_id,omitempty"`
	Event      string `json:"event"`
	TS         int64  `json:"ts"`
}

// DriverSim polls for ready routes and replays each one as a sequence of
// progress reports over MQTT, as a real driver app would.
type DriverSim struct {
	APIURL      string
	TopicPrefix string
	StopDelay   time.Duration
	Client      *http.Client

	cli  paho.Client
	mu   sync.Mutex
	done map[string]bool
}

func NewDriverSim(apiURL, broker, topicPrefix string, stopDelay time.Duration) (*DriverSim, error) {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID(fmt.Sprintf("sim-drivers-%d", time.Now().UnixNano()))
	opts.AutoReconnect = true
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &DriverSim{
		APIURL:      apiURL,
		TopicPrefix: topicPrefix,
		StopDelay:   stopDelay,
		Client:      &http.Client{Timeout: 10 * time.Second},
		cli:         cli,
		done:        map[string]bool{},
	}, nil
}

// Run polls until ctx is done.
func (s *DriverSim) Run(ctx context.Context, poll time.Duration) {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.cli.Disconnect(250)
			return
		case <-ticker.C:
			routes, err := s.fetchRoutes(ctx)
			if err != nil {
				log.Printf("fetch routes: %v", err)
				continue
			}
			for _, r := range routes {
				if r.State != "ready_to_start" || s.claimed(r.ID) {
					continue
				}
				go s.drive(ctx, r)
			}
		}
	}
}

func (s *DriverSim) claimed(routeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done[routeID] {
		return true
	}
	s.done[routeID] = true
	return false
}

func (s *DriverSim) fetchRoutes(ctx context.Context) ([]activeRoute, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.APIURL+"/api/routes/active", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api returned %s", resp.Status)
	}
	var routes []activeRoute
	if err := json.NewDecoder(resp.Body).Decode(&routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// drive replays one route: start, one stop_completed per stop, then
// route_completed.
func (s *DriverSim) drive(ctx context.Context, r activeRoute) {
	s.publish(r.Driver.ID, progressReport{DriverID: r.Driver.ID, RouteID: r.ID, Event: "start", TS: time.Now().Unix()})
	for _, stop := range r.Stops {
		select {
		case <-time.After(s.StopDelay):
		case <-ctx.Done():
			return
		}
		s.publish(r.Driver.ID, progressReport{
			DriverID:   r.Driver.ID,
			RouteID:    r.ID,
			ShipmentID: stop.ShipmentID,
			Event:      "stop_completed",
			TS:         time.Now().Unix(),
		})
	}
	s.publish(r.Driver.ID, progressReport{DriverID: r.Driver.ID, RouteID: r.ID, Event: "route_completed", TS: time.Now().Unix()})
	log.Printf("route %s completed with %d stops", r.ID, len(r.Stops))
}

func (s *DriverSim) publish(driverID string, rep progressReport) {
	payload, err := json.Marshal(rep)
	if err != nil {
		log.Printf("marshal report: %v", err)
		return
	}
	topic := fmt.Sprintf("%s/%s", s.TopicPrefix, driverID)
	token := s.cli.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		log.Printf("publish timeout on %s", topic)
		return
	}
	if err := token.Error(); err != nil {
		log.Printf("publish %s: %v", topic, err)
	}
}
