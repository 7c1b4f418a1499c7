package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"trattoria/internal/metrics"
	"trattoria/internal/service"
)

// handleCreateOrder accepts a cart submission and returns the stored
// order plus the WhatsApp handoff link.
// POST /api/orders
func (s *HTTPServer) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("orders")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req service.OrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.orders.Submit(r.Context(), &req)
	if err != nil {
		status, msg := orderErrorStatus(err)
		if status == http.StatusInternalServerError {
			s.logError(err, "order submit")
			msg = "could not create order"
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// orderErrorStatus maps service errors to HTTP statuses. Unrecognized
// errors are treated as internal.
func orderErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrTooManyRequests):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, service.ErrRestaurantClosed),
		errors.Is(err, service.ErrOrderingDisabled):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrTooManyItems),
		errors.Is(err, service.ErrUnknownProduct),
		errors.Is(err, service.ErrMissingContact),
		errors.Is(err, service.ErrMissingAddress),
		errors.Is(err, service.ErrInvalidOrderType),
		errors.Is(err, service.ErrBelowMinimum):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}
