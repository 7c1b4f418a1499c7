package database

import (
	"context"
	"fmt"
	"time"

	"trattoria/internal/config"
)

// SyncMenuFromConfig applies menu.yaml to the database. It upserts
// categories and products keyed by name, aligns display positions with
// file order, and hides entries that disappeared from the file instead of
// deleting them, so past orders keep valid product references.
func (db *DB) SyncMenuFromConfig(ctx context.Context, cfg *config.MenuConfig) error {
	if cfg == nil {
		return fmt.Errorf("menu config is nil")
	}

	now := time.Now()
	seenCategories := make(map[string]struct{})
	seenProducts := make(map[string]struct{}) // "category/product"

	for pos, cat := range cfg.Categories {
		visible := 0
		if config.IsVisible(cat.Visible) {
			visible = 1
		}

		// Preserve created_at if the category already exists.
		_, err := db.ExecContext(ctx, `
			INSERT INTO categories (name, position, visible, created_at, updated_at)
			VALUES (?, ?, ?, COALESCE((SELECT created_at FROM categories WHERE name = ?), ?), ?)
			ON CONFLICT(name) DO UPDATE SET
				position = excluded.position,
				visible = excluded.visible,
				updated_at = excluded.updated_at`,
			cat.Name, pos, visible, cat.Name, now, now,
		)
		if err != nil {
			return fmt.Errorf("sync category %q: %w", cat.Name, err)
		}
		seenCategories[cat.Name] = struct{}{}

		var categoryID int64
		if err := db.QueryRowContext(ctx,
			`SELECT id FROM categories WHERE name = ?`, cat.Name,
		).Scan(&categoryID); err != nil {
			return fmt.Errorf("lookup category %q: %w", cat.Name, err)
		}

		for ppos, p := range cat.Products {
			pVisible := 0
			if config.IsVisible(p.Visible) {
				pVisible = 1
			}

			_, err := db.ExecContext(ctx, `
				INSERT INTO products (category_id, name, description, price, tags, allergens,
				                      visible, position, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?,
				        COALESCE((SELECT created_at FROM products WHERE category_id = ? AND name = ?), ?), ?)
				ON CONFLICT(category_id, name) DO UPDATE SET
					description = excluded.description,
					price = excluded.price,
					tags = excluded.tags,
					allergens = excluded.allergens,
					visible = excluded.visible,
					position = excluded.position,
					updated_at = excluded.updated_at`,
				categoryID, p.Name, p.Description, p.Price,
				joinList(p.Tags), joinList(p.Allergens), pVisible, ppos,
				categoryID, p.Name, now, now,
			)
			if err != nil {
				return fmt.Errorf("sync product %q/%q: %w", cat.Name, p.Name, err)
			}
			seenProducts[cat.Name+"/"+p.Name] = struct{}{}
		}
	}

	// Hide categories and products that disappeared from the file.
	rows, err := db.QueryContext(ctx, `
		SELECT p.id, c.name, p.name
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE p.visible = 1`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var hideProducts []int64
	for rows.Next() {
		var id int64
		var catName, prodName string
		if err := rows.Scan(&id, &catName, &prodName); err != nil {
			return err
		}
		if _, ok := seenProducts[catName+"/"+prodName]; !ok {
			hideProducts = append(hideProducts, id)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range hideProducts {
		if _, err := db.ExecContext(ctx,
			`UPDATE products SET visible = 0, updated_at = ? WHERE id = ?`, now, id,
		); err != nil {
			return fmt.Errorf("hide product %d: %w", id, err)
		}
	}

	catRows, err := db.QueryContext(ctx, `SELECT id, name FROM categories WHERE visible = 1`)
	if err != nil {
		return err
	}
	defer catRows.Close()

	var hideCategories []int64
	for catRows.Next() {
		var id int64
		var name string
		if err := catRows.Scan(&id, &name); err != nil {
			return err
		}
		if _, ok := seenCategories[name]; !ok {
			hideCategories = append(hideCategories, id)
		}
	}
	if err := catRows.Err(); err != nil {
		return err
	}

	for _, id := range hideCategories {
		if _, err := db.ExecContext(ctx,
			`UPDATE categories SET visible = 0, updated_at = ? WHERE id = ?`, now, id,
		); err != nil {
			return fmt.Errorf("hide category %d: %w", id, err)
		}
	}

	return nil
}
