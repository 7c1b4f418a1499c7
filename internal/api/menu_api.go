package api

import (
	"net/http"
	"strings"

	"trattoria/internal/metrics"
	"trattoria/internal/models"
)

// MenuCategory is one category with its visible products.
type MenuCategory struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Products []models.Product `json:"products"`
}

// MenuResponse is the full customer-facing menu.
type MenuResponse struct {
	Categories []MenuCategory `json:"categories"`
}

// handleMenu returns the visible menu grouped by category.
// GET /api/menu
func (s *HTTPServer) handleMenu(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("menu")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	categories, err := s.db.ListCategories(r.Context(), true)
	if err != nil {
		s.logError(err, "list categories")
		writeError(w, http.StatusInternalServerError, "menu unavailable")
		return
	}
	products, err := s.db.ListProducts(r.Context(), true)
	if err != nil {
		s.logError(err, "list products")
		writeError(w, http.StatusInternalServerError, "menu unavailable")
		return
	}

	byCategory := make(map[int64][]models.Product, len(categories))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	resp := MenuResponse{Categories: make([]MenuCategory, 0, len(categories))}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, MenuCategory{
			ID:       c.ID,
			Name:     c.Name,
			Products: byCategory[c.ID],
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleMenuSearch returns visible products matching the q parameter.
// GET /api/menu/search?q=...
func (s *HTTPServer) handleMenuSearch(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("menu_search")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}

	products, err := s.db.SearchProducts(r.Context(), query)
	if err != nil {
		s.logError(err, "search products")
		writeError(w, http.StatusInternalServerError, "search unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":    query,
		"products": products,
	})
}

func (s *HTTPServer) logError(err error, msg string) {
	if s.logger != nil {
		s.logger.Error().Err(err).Msg(msg)
	}
}
