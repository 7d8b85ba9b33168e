// Package stats exposes network statistics, the driver pool and the pending
// queue over HTTP.
package stats

import (
	"encoding/json"
	"net/http"

	"github.com/josepaz/rumbo/core/driverstatus"
	"github.com/josepaz/rumbo/core/engine"
	"github.com/josepaz/rumbo/core/queue"
)

// NewStatsHandler returns an HTTP handler exposing aggregate optimization
// statistics via GET /api/stats.
func NewStatsHandler(eng *engine.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ns, err := eng.Stats(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ns); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewDriversHandler returns an HTTP handler exposing the driver pool via
// GET /api/drivers.
func NewDriversHandler(eng *engine.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(eng.FleetSummary()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewDriversLiveHandler returns an HTTP handler exposing live driver progress
// via GET /api/drivers/live, filterable with ?zone= and ?vehicle=.
func NewDriversLiveHandler(status driverstatus.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		out := status.List(driverstatus.Filter{
			Zone:    r.URL.Query().Get("zone"),
			Vehicle: r.URL.Query().Get("vehicle"),
		})
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// queueAnalysis is the pending-queue grouping preview served to dispatchers.
type queueAnalysis struct {
	Pending      int         `json:"pending"`
	GroupsReady  int         `json:"groups_ready"`
	BelowMinimum int         `json:"below_minimum"`
	Groups       []groupView `json:"groups"`
}

type groupView struct {
	Key          string `json:"key"`
	Vehicle      string `json:"vehicle"`
	Zone         string `json:"zone"`
	Shipments    int    `json:"shipments"`
	UrgentBypass bool   `json:"urgent_bypass,omitempty"`
}

// NewQueueHandler returns an HTTP handler previewing how the pending queue
// would group on the next run, via GET /api/queue.
func NewQueueHandler(eng *engine.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		pending := eng.PendingShipments()
		groups, remaining := queue.AnalyzeAndGroup(pending)

		out := queueAnalysis{
			Pending:      len(pending),
			GroupsReady:  len(groups),
			BelowMinimum: len(remaining),
			Groups:       make([]groupView, 0, len(groups)),
		}
		for _, g := range groups {
			out.Groups = append(out.Groups, groupView{
				Key:          g.Key,
				Vehicle:      string(g.Vehicle),
				Zone:         g.Zone,
				Shipments:    len(g.Shipments),
				UrgentBypass: g.UrgentBypass,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
