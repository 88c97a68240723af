package api

import (
	"net/http"
	"time"
)

// upstreamAuth labels the CoinGecko credential state for /health.
func upstreamAuth(authenticated bool) string {
	if authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

type healthReport struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	Services  struct {
		CoinGecko string `json:"coingecko"`
	} `json:"services"`
}

// health reports configuration only; CoinGecko is never called.
func (s *Server) health(now time.Time) healthReport {
	var h healthReport
	h.Status = "ok"
	h.Timestamp = now.UTC().Format(time.RFC3339)
	h.Uptime = now.Sub(s.started).Truncate(time.Second).String()
	h.Services.CoinGecko = upstreamAuth(s.opts.UpstreamAuthenticated)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.health(time.Now()))
}
