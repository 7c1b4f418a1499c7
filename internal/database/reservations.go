package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"trattoria/internal/models"
)

// CreateReservation persists a reservation and sets its ID.
func (db *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO reservations (code, customer_name, customer_phone, guests, at, notes, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Code, r.CustomerName, r.CustomerPhone, r.Guests, r.At, r.Notes, r.Status,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	r.ID, err = res.LastInsertId()
	return err
}

// GetReservationByCode returns a reservation by its public code, or nil
// when absent.
func (db *DB) GetReservationByCode(ctx context.Context, code string) (*models.Reservation, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, code, customer_name, customer_phone, guests, at, notes, status, created_at, updated_at
		FROM reservations WHERE code = ?`, code)

	r, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

// ListReservations returns reservations with a requested instant within
// [from, to), soonest first.
func (db *DB) ListReservations(ctx context.Context, from, to time.Time) ([]models.Reservation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, code, customer_name, customer_phone, guests, at, notes, status, created_at, updated_at
		FROM reservations
		WHERE at >= ? AND at < ?
		ORDER BY at`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *r)
	}
	return reservations, rows.Err()
}

// UpdateReservationStatus transitions a reservation to the given status.
func (db *DB) UpdateReservationStatus(ctx context.Context, id int64, status string) error {
	res, err := db.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update reservation status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("reservation %d not found", id)
	}
	return nil
}

func scanReservation(row rowScanner) (*models.Reservation, error) {
	var r models.Reservation
	var notes sql.NullString

	err := row.Scan(
		&r.ID, &r.Code, &r.CustomerName, &r.CustomerPhone, &r.Guests,
		&r.At, &notes, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Notes = notes.String
	return &r, nil
}
