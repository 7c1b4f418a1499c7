package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	OrderStatusNew       = "new"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order types.
const (
	OrderTypePickup   = "pickup"
	OrderTypeDelivery = "delivery"
)

// OrderItem is one product line in an order. UnitPrice is the menu price
// at submission time, copied so later menu edits don't rewrite history.
type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
}

// LineTotal returns UnitPrice * Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a customer order handed off via WhatsApp.
type Order struct {
	ID            int64           `json:"id"`
	Code          string          `json:"code"` // short public identifier
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Type          string          `json:"type"` // pickup, delivery
	Address       string          `json:"address,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Items         []OrderItem     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ComputeTotals fills Subtotal, DeliveryFee and Total from the item lines.
// The fee is only charged for delivery orders.
func (o *Order) ComputeTotals(deliveryFee decimal.Decimal) {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	o.Subtotal = subtotal

	if o.Type == OrderTypeDelivery {
		o.DeliveryFee = deliveryFee
	} else {
		o.DeliveryFee = decimal.Zero
	}
	o.Total = o.Subtotal.Add(o.DeliveryFee)
}

// ItemCount returns the total number of units across all lines.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
