package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"trattoria/internal/metrics"
	"trattoria/internal/service"
)

// handleCreateReservation accepts a table reservation request.
// POST /api/reservations
func (s *HTTPServer) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("reservations")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req service.ReservationRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.reservations.Request(r.Context(), &req)
	if err != nil {
		status, msg := reservationErrorStatus(err)
		if status == http.StatusInternalServerError {
			s.logError(err, "reservation request")
			msg = "could not create reservation"
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func reservationErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrOutsideOpenHours):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrGuestsOutOfRange),
		errors.Is(err, service.ErrTooSoon),
		errors.Is(err, service.ErrTooFarAhead),
		errors.Is(err, service.ErrMissingContactRes):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}
