package models

import "time"

// Reservation statuses.
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
)

// Reservation is a table reservation request.
type Reservation struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Guests        int       `json:"guests"`
	At            time.Time `json:"at"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
