package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trattoria/internal/export"
	"trattoria/internal/metrics"
)

// handleOrdersExport streams an xlsx report of orders in a date range.
// GET /api/admin/orders/export?from=YYYY-MM-DD&to=YYYY-MM-DD
func (s *HTTPServer) handleOrdersExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("orders_export")
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, to, err := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := s.db.ListOrders(r.Context(), from, to)
	if err != nil {
		s.logError(err, "list orders for export")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := fmt.Sprintf("ordini_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.OrdersReport(w, orders); err != nil {
		s.logError(err, "write orders report")
	}
}

// handleSettings reads or updates restaurant settings.
// GET /api/admin/settings, PUT /api/admin/settings
func (s *HTTPServer) handleSettings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("settings")
	if !s.requireAdmin(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		settings, err := s.db.AllSettings(r.Context())
		if err != nil {
			s.logError(err, "list settings")
			writeError(w, http.StatusInternalServerError, "settings unavailable")
			return
		}
		writeJSON(w, http.StatusOK, settings)

	case http.MethodPut:
		var updates map[string]string
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(&updates); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		for key, value := range updates {
			if err := s.db.SetSetting(r.Context(), key, value); err != nil {
				s.logError(err, "set setting")
				writeError(w, http.StatusInternalServerError, "could not update settings")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]int{"updated": len(updates)})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// parseDateRange parses inclusive from / exclusive to dates. A missing
// to defaults to tomorrow so "everything up to now" exports work.
func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	if fromStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("missing from parameter")
	}
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date; expected YYYY-MM-DD")
	}

	var to time.Time
	if toStr == "" {
		to = time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour)
	} else {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date; expected YYYY-MM-DD")
		}
		to = to.AddDate(0, 0, 1) // inclusive end date
	}

	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}
	return from, to, nil
}
