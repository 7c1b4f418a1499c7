// Package api exposes the customer-facing and back-office HTTP endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"trattoria/internal/database"
	"trattoria/internal/service"
)

// HTTPServer serves the JSON API.
type HTTPServer struct {
	db           *database.DB
	status       *service.StatusService
	orders       *service.OrderService
	reservations *service.ReservationService
	adminKey     string
	logger       *zerolog.Logger
}

// NewHTTPServer wires the API around the services.
func NewHTTPServer(
	db *database.DB,
	status *service.StatusService,
	orders *service.OrderService,
	reservations *service.ReservationService,
	adminKey string,
	logger *zerolog.Logger,
) *HTTPServer {
	return &HTTPServer{
		db:           db,
		status:       status,
		orders:       orders,
		reservations: reservations,
		adminKey:     adminKey,
		logger:       logger,
	}
}

// Handler returns the routed handler.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/menu", s.handleMenu)
	mux.HandleFunc("/api/menu/search", s.handleMenuSearch)
	mux.HandleFunc("/api/orders", s.handleCreateOrder)
	mux.HandleFunc("/api/reservations", s.handleCreateReservation)
	mux.HandleFunc("/api/admin/orders/export", s.handleOrdersExport)
	mux.HandleFunc("/api/admin/settings", s.handleSettings)
	return mux
}

// Start runs the server until ctx is done.
func (s *HTTPServer) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	if s.logger != nil {
		s.logger.Info().Int("port", port).Msg("API server listening")
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// requireAdmin checks the back-office key header. An empty configured key
// disables the admin endpoints entirely.
func (s *HTTPServer) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.adminKey == "" || r.Header.Get("X-Admin-Key") != s.adminKey {
		writeError(w, http.StatusUnauthorized, "missing or invalid admin key")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
