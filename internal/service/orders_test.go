package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"trattoria/internal/config"
	"trattoria/internal/database"
	"trattoria/internal/models"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	menu := &config.MenuConfig{
		Categories: []config.CategoryConfig{
			{
				Name: "Pizze",
				Products: []config.ProductConfig{
					{Name: "Margherita", Price: "7.50"},
					{Name: "Diavola", Price: "9.00"},
				},
			},
		},
	}
	require.NoError(t, db.SyncMenuFromConfig(context.Background(), menu))
	return db
}

func openStatus(t *testing.T, isOpen bool) *StatusService {
	t.Helper()
	s := NewStatusService(time.UTC, nil, nil)
	s.SetSchedule(testWeek())
	if isOpen {
		s.SetClock(fixedClock(at(6, 13, 0))) // Tuesday lunch
	} else {
		s.SetClock(fixedClock(at(6, 16, 0))) // Tuesday afternoon gap
	}
	return s
}

func testRules() OrderRules {
	return OrderRules{
		MinOrderDelivery: decimal.RequireFromString("15.00"),
		DeliveryFee:      decimal.RequireFromString("2.50"),
		MaxItems:         10,
		SubmitRate:       rate.Inf,
		SubmitBurst:      1,
	}
}

func productID(t *testing.T, db *database.DB, name string) int64 {
	t.Helper()
	products, err := db.ListProducts(context.Background(), false)
	require.NoError(t, err)
	for _, p := range products {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("product %q not seeded", name)
	return 0
}

func TestOrderSubmit(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db, openStatus(t, true), testRules(), "Da Mario", "+39 333 1234567", nil, nil)

	result, err := svc.Submit(context.Background(), &OrderRequest{
		CustomerName:  "Luca",
		CustomerPhone: "+39 333 7654321",
		Type:          models.OrderTypeDelivery,
		Address:       "Via Roma 1",
		Items: []OrderItemRequest{
			{ProductID: productID(t, db, "Margherita"), Quantity: 2},
			{ProductID: productID(t, db, "Diavola"), Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Order)

	assert.NotEmpty(t, result.Order.Code)
	assert.True(t, result.Order.Subtotal.Equal(decimal.RequireFromString("24.00")))
	assert.True(t, result.Order.Total.Equal(decimal.RequireFromString("26.50")))
	assert.Contains(t, result.WhatsAppLink, "https://wa.me/393331234567?text=")

	stored, err := db.GetOrderByCode(context.Background(), result.Order.Code)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.OrderStatusNew, stored.Status)
}

func TestOrderSubmitRejectedWhenClosed(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db, openStatus(t, false), testRules(), "Da Mario", "+393331234567", nil, nil)

	_, err := svc.Submit(context.Background(), &OrderRequest{
		CustomerName:  "Luca",
		CustomerPhone: "+393337654321",
		Type:          models.OrderTypePickup,
		Items:         []OrderItemRequest{{ProductID: productID(t, db, "Margherita"), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrRestaurantClosed)
}

func TestOrderSubmitValidation(t *testing.T) {
	db := testDB(t)
	svc := NewOrderService(db, openStatus(t, true), testRules(), "Da Mario", "+393331234567", nil, nil)
	margherita := productID(t, db, "Margherita")

	tests := []struct {
		name    string
		req     OrderRequest
		wantErr error
	}{
		{
			name: "missing contact",
			req: OrderRequest{
				Type:  models.OrderTypePickup,
				Items: []OrderItemRequest{{ProductID: margherita, Quantity: 1}},
			},
			wantErr: ErrMissingContact,
		},
		{
			name: "bad type",
			req: OrderRequest{
				CustomerName: "Luca", CustomerPhone: "+393337654321",
				Type:  "dine-in",
				Items: []OrderItemRequest{{ProductID: margherita, Quantity: 1}},
			},
			wantErr: ErrInvalidOrderType,
		},
		{
			name: "delivery without address",
			req: OrderRequest{
				CustomerName: "Luca", CustomerPhone: "+393337654321",
				Type:  models.OrderTypeDelivery,
				Items: []OrderItemRequest{{ProductID: margherita, Quantity: 3}},
			},
			wantErr: ErrMissingAddress,
		},
		{
			name: "empty cart",
			req: OrderRequest{
				CustomerName: "Luca", CustomerPhone: "+393337654321",
				Type: models.OrderTypePickup,
			},
			wantErr: ErrEmptyOrder,
		},
		{
			name: "zero quantity",
			req: OrderRequest{
				CustomerName: "Luca", CustomerPhone: "+393337654321",
				Type:  models.OrderTypePickup,
				Items: []OrderItemRequest{{ProductID: margherita, Quantity: 0}},
			},
			wantErr: ErrEmptyOrder,
		},
		{
			name: "too many items",
			req: OrderRequest{
				CustomerName: "Luca", CustomerPhone: "+393337654321",
				Type:  models.OrderTypePickup,
				Items: []OrderItemRequest{{ProductID: margherita, Quantity: 11}},
			},
			wantErr: ErrTooManyItems,
		},
		{
			name: "unknown product",
			req: OrderRequest{
				CustomerName: "Luca", CustomerPhone: "+393337654321",
				Type:  models.OrderTypePickup,
				Items: []OrderItemRequest{{ProductID: 9999, Quantity: 1}},
			},
			wantErr: ErrUnknownProduct,
		},
		{
			name: "delivery below minimum",
			req: OrderRequest{
				CustomerName: "Luca", CustomerPhone: "+393337654321",
				Type: models.OrderTypeDelivery, Address: "Via Roma 1",
				Items: []OrderItemRequest{{ProductID: margherita, Quantity: 1}},
			},
			wantErr: ErrBelowMinimum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrderSubmitOrderingDisabled(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SetSetting(context.Background(), database.SettingOrderingOpen, "0"))

	svc := NewOrderService(db, openStatus(t, true), testRules(), "Da Mario", "+393331234567", nil, nil)
	_, err := svc.Submit(context.Background(), &OrderRequest{
		CustomerName: "Luca", CustomerPhone: "+393337654321",
		Type:  models.OrderTypePickup,
		Items: []OrderItemRequest{{ProductID: productID(t, db, "Margherita"), Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrOrderingDisabled)
}

func TestOrderSubmitRateLimited(t *testing.T) {
	db := testDB(t)
	rules := testRules()
	rules.SubmitRate = rate.Every(time.Hour)
	rules.SubmitBurst = 1
	svc := NewOrderService(db, openStatus(t, true), rules, "Da Mario", "+393331234567", nil, nil)

	req := &OrderRequest{
		CustomerName: "Luca", CustomerPhone: "+393337654321",
		Type:  models.OrderTypePickup,
		Items: []OrderItemRequest{{ProductID: productID(t, db, "Margherita"), Quantity: 1}},
	}

	_, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, ErrTooManyRequests)

	// A different client still gets through.
	other := *req
	other.CustomerPhone = "+393330000000"
	_, err = svc.Submit(context.Background(), &other)
	assert.NoError(t, err)
}
