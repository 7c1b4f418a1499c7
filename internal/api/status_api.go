package api

import (
	"net/http"

	"trattoria/internal/metrics"
)

// handleStatus returns the current open state with next-opening info.
// GET /api/status
func (s *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("status")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := s.status.CurrentJSON(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "status unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
