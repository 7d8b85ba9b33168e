// Package shipments exposes shipment registration and estimate lookup over
// HTTP.
package shipments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/josepaz/rumbo/core/engine"
	"github.com/josepaz/rumbo/infra/store"
)

// NewCreateHandler returns an HTTP handler registering shipments via
// POST /api/shipments. The response carries the tracking id, the quote and
// the preliminary estimate.
func NewCreateHandler(eng *engine.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req engine.CreateShipmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if req.RecipientCity == "" {
			http.Error(w, "recipient_city is required", http.StatusBadRequest)
			return
		}
		s, err := eng.CreateShipment(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewEstimateHandler returns an HTTP handler exposing delivery estimates via
// GET /api/shipments/estimate?tracking=RB-....
func NewEstimateHandler(eng *engine.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		tracking := r.URL.Query().Get("tracking")
		if tracking == "" {
			http.Error(w, "tracking is required", http.StatusBadRequest)
			return
		}
		s, err := eng.Shipment(r.Context(), tracking)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "shipment not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
