// Package endpoints implements the HTTP API surface. Each endpoint pairs
// its route with a cobra command calling it, following the single
// source-of-truth pattern in internal/api.
package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/tabled-dev/tabled/internal/api"
)

// All returns every endpoint for registration.
func All() []api.Endpoint {
	return []api.Endpoint{
		&RootEndpoint{},
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},
		&ProcessEndpoint{},
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
