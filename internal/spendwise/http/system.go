package http

import (
	"net/http"
	"time"

	"github.com/spendwise-app/spendwise/pkg/httpx"
)

type healthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`

	Database string `json:"database,omitempty"`
}

func (rt *Router) registerSystem() {
	rt.Mux.Handle("GET /livez", http.HandlerFunc(rt.handleLivez))
	rt.Mux.Handle("GET /readyz", http.HandlerFunc(rt.handleReadyz))
}

// handleLivez godoc
//
//	@Summary	Liveness probe, always 200 while the process runs
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	healthResponse
//	@Router		/livez [get].
func (rt *Router) handleLivez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, r, http.StatusOK, healthResponse{
		Status:  "ok",
		Uptime:  time.Since(rt.startTime).String(),
		Version: rt.buildVersion,
	})
}

// handleReadyz godoc
//
//	@Summary	Readiness probe, checks the database
//	@Tags		Health
//	@Produce	json
//	@Success	200	{object}	healthResponse
//	@Failure	503	{object}	healthResponse
//	@Router		/readyz [get].
func (rt *Router) handleReadyz(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Status:   "ok",
		Uptime:   time.Since(rt.startTime).String(),
		Version:  rt.buildVersion,
		Database: "ok",
	}
	status := http.StatusOK

	if err := rt.store.Ping(r.Context()); err != nil {
		response.Status = "degraded"
		response.Database = "error: " + err.Error()
		status = http.StatusServiceUnavailable
	}

	httpx.WriteJSON(w, r, status, response)
}
