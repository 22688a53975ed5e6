package server

import "net/http"

// handleAdminStats returns user and resume totals with the daily creation series.
func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		errorResponse(w, http.StatusServiceUnavailable, "statistics are not available")
		return
	}

	out, err := s.stats.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}
