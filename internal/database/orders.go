package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"trattoria/internal/models"
)

// CreateOrder persists an order and sets its ID.
func (db *DB) CreateOrder(ctx context.Context, o *models.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal order items: %w", err)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO orders (code, customer_name, customer_phone, type, address, notes,
		                    items, subtotal, delivery_fee, total, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Code, o.CustomerName, o.CustomerPhone, o.Type, o.Address, o.Notes,
		string(items), o.Subtotal.String(), o.DeliveryFee.String(), o.Total.String(), o.Status,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	o.ID, err = res.LastInsertId()
	return err
}

// GetOrderByCode returns an order by its public code, or nil when absent.
func (db *DB) GetOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, code, customer_name, customer_phone, type, address, notes,
		       items, subtotal, delivery_fee, total, status, created_at, updated_at
		FROM orders WHERE code = ?`, code)

	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return o, err
}

// ListOrders returns orders created within [from, to), newest first.
func (db *DB) ListOrders(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, code, customer_name, customer_phone, type, address, notes,
		       items, subtotal, delivery_fee, total, status, created_at, updated_at
		FROM orders
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at DESC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// UpdateOrderStatus transitions an order to the given status.
func (db *DB) UpdateOrderStatus(ctx context.Context, id int64, status string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("order %d not found", id)
	}
	return nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var address, notes sql.NullString
	var items, subtotal, deliveryFee, total string

	err := row.Scan(
		&o.ID, &o.Code, &o.CustomerName, &o.CustomerPhone, &o.Type, &address, &notes,
		&items, &subtotal, &deliveryFee, &total, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	o.Address = address.String
	o.Notes = notes.String

	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return nil, fmt.Errorf("order %d: bad items payload: %w", o.ID, err)
	}
	if o.Subtotal, err = parseDecimal(subtotal); err != nil {
		return nil, fmt.Errorf("order %d: %w", o.ID, err)
	}
	if o.DeliveryFee, err = parseDecimal(deliveryFee); err != nil {
		return nil, fmt.Errorf("order %d: %w", o.ID, err)
	}
	if o.Total, err = parseDecimal(total); err != nil {
		return nil, fmt.Errorf("order %d: %w", o.ID, err)
	}
	return &o, nil
}
