package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"trattoria/internal/models"
)

// ListCategories returns categories ordered by position. When visibleOnly
// is set, hidden categories are filtered out.
func (db *DB) ListCategories(ctx context.Context, visibleOnly bool) ([]models.Category, error) {
	query := `SELECT id, name, position, visible, created_at, updated_at FROM categories`
	if visibleOnly {
		query += ` WHERE visible = 1`
	}
	query += ` ORDER BY position, id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Position, &c.Visible, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetProduct returns a product by ID.
func (db *DB) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, category_id, name, description, price, tags, allergens,
		       visible, position, created_at, updated_at
		FROM products WHERE id = ?`, id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListProducts returns products ordered by category position then product
// position. When visibleOnly is set, hidden products and products in
// hidden categories are filtered out.
func (db *DB) ListProducts(ctx context.Context, visibleOnly bool) ([]models.Product, error) {
	query := `
		SELECT p.id, p.category_id, p.name, p.description, p.price, p.tags,
		       p.allergens, p.visible, p.position, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id`
	if visibleOnly {
		query += ` WHERE p.visible = 1 AND c.visible = 1`
	}
	query += ` ORDER BY c.position, c.id, p.position, p.id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// SearchProducts returns visible products matching the query string.
// Matching is done in Go over name, description and tags so the semantics
// stay identical to models.Product.Matches.
func (db *DB) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	products, err := db.ListProducts(ctx, true)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Matches(query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var description, priceStr, tags, allergens sql.NullString

	err := row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &description, &priceStr, &tags,
		&allergens, &p.Visible, &p.Position, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.Tags = splitList(tags.String)
	p.Allergens = splitList(allergens.String)

	p.Price, err = decimal.NewFromString(priceStr.String)
	if err != nil {
		return nil, fmt.Errorf("product %d: bad price %q: %w", p.ID, priceStr.String, err)
	}
	return &p, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func joinList(items []string) string {
	return strings.Join(items, ",")
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bad decimal %q: %w", s, err)
	}
	return d, nil
}
