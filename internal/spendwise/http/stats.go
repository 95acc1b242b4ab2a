package http

import (
	"net/http"
	"strconv"

	"github.com/spendwise-app/spendwise/internal/spendwise/service"
	"github.com/spendwise-app/spendwise/pkg/httpx"
)

func (rt *Router) registerStats() {
	rt.Mux.Handle("GET /stats", rt.protected(http.HandlerFunc(rt.handleStats)))
	rt.Mux.Handle("GET /stats/chart", rt.protected(http.HandlerFunc(rt.handleChart)))
	rt.Mux.Handle("GET /stats/chart/{days}", rt.protected(http.HandlerFunc(rt.handleChart)))
}

// handleStats godoc
//
//	@Summary	Account summary: totals, balance, min/max and latest entries
//	@Tags		Stats
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	domain.Stats
//	@Router		/stats [get].
func (rt *Router) handleStats(w http.ResponseWriter, r *http.Request) {
	user, ok := rt.sessionUser(w, r)
	if !ok {
		return
	}

	stats, err := rt.Stats.Summary(r.Context(), user.ID)
	if err != nil {
		writeInternal(w, r, err, "Failed to fetch statistics")
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, r, http.StatusOK, stats)
}

// handleChart godoc
//
//	@Summary	Records over a trailing window of days, default 180
//	@Tags		Stats
//	@Security	BearerAuth
//	@Produce	json
//	@Param		days	path		int	false	"Window in days"
//	@Success	200		{object}	domain.ChartData
//	@Router		/stats/chart/{days} [get].
func (rt *Router) handleChart(w http.ResponseWriter, r *http.Request) {
	user, ok := rt.sessionUser(w, r)
	if !ok {
		return
	}

	days := service.DefaultChartDays
	if raw := r.PathValue("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "Days must be a number")
			return
		}
		days = n
	}

	chart, err := rt.Stats.Chart(r.Context(), user.ID, days)
	if err != nil {
		writeInternal(w, r, err, "Failed to fetch chart data")
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, r, http.StatusOK, chart)
}
