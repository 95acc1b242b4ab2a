package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/spendwise-app/spendwise/pkg/slogx"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slogx.FromContext(r.Context()).Error("write json response", "error", err)
	}
}

// NoCache marks a response as uncacheable. Applied to everything that
// carries account data.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
