package api

import (
	"net/http"

	"go.uber.org/zap"
)

const (
	msgCurrentFailed = "Failed to fetch current price"
	msgHistoryFailed = "Failed to fetch price history"
)

func (s *Server) handleCurrentPrice(w http.ResponseWriter, r *http.Request) {
	snap := s.prices.CurrentPrice(r.Context())
	if !snap.Listed() {
		s.logger.Debug("current price unavailable", zap.String("reason", snap.Error))
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	days := parseDays(r)
	res := s.prices.History(r.Context(), days)
	if !res.Available() {
		s.logger.Debug("price history unavailable", zap.Int("days", days))
	}
	writeJSON(w, http.StatusOK, res)
}
