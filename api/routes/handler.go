// Package routes exposes route state and the optimization trigger over HTTP.
package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/josepaz/rumbo/core/engine"
)

// NewActiveHandler returns an HTTP handler listing active routes via
// GET /api/routes/active.
func NewActiveHandler(eng *engine.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		routes, err := eng.ActiveRoutes(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(routes); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewOptimizeHandler returns an HTTP handler forcing an optimization run via
// POST /api/optimize. A run already in progress answers 409.
func NewOptimizeHandler(eng *engine.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sum, err := eng.Optimize(r.Context())
		if err != nil {
			if errors.Is(err, engine.ErrRunInProgress) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sum); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
