package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)

	rl := NewRateLimiter(stop)
	profile := LimitProfile{Rate: rate.Every(time.Hour), Burst: 3}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), rl.Limit(profile))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for range 3 {
		require.Equal(t, http.StatusNoContent, do("10.0.0.1:1234"))
	}
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1234"))

	// Other clients keep their own bucket.
	require.Equal(t, http.StatusNoContent, do("10.0.0.2:1234"))
}
