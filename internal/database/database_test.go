package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trattoria/internal/config"
	"trattoria/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func boolPtr(v bool) *bool { return &v }

func testMenuConfig() *config.MenuConfig {
	return &config.MenuConfig{
		Categories: []config.CategoryConfig{
			{
				Name: "Pizze",
				Products: []config.ProductConfig{
					{Name: "Margherita", Description: "pomodoro, mozzarella", Price: "7.50", Tags: []string{"classica"}},
					{Name: "Diavola", Price: "9.00"},
				},
			},
			{
				Name: "Dolci",
				Products: []config.ProductConfig{
					{Name: "Tiramisù", Price: "5.00", Visible: boolPtr(false)},
				},
			},
		},
	}
}

func TestSyncMenuFromConfig(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, db.SyncMenuFromConfig(ctx, testMenuConfig()))

	categories, err := db.ListCategories(ctx, true)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Pizze", categories[0].Name)
	assert.Equal(t, "Dolci", categories[1].Name)

	visible, err := db.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "Margherita", visible[0].Name)
	assert.True(t, visible[0].Price.Equal(decimal.RequireFromString("7.50")))
	assert.Equal(t, []string{"classica"}, visible[0].Tags)

	all, err := db.ListProducts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSyncMenuFromConfigIsIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	cfg := testMenuConfig()
	require.NoError(t, db.SyncMenuFromConfig(ctx, cfg))
	require.NoError(t, db.SyncMenuFromConfig(ctx, cfg))

	all, err := db.ListProducts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSyncMenuHidesRemovedProducts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	require.NoError(t, db.SyncMenuFromConfig(ctx, testMenuConfig()))

	trimmed := &config.MenuConfig{
		Categories: []config.CategoryConfig{
			{
				Name:     "Pizze",
				Products: []config.ProductConfig{{Name: "Margherita", Price: "8.00"}},
			},
		},
	}
	require.NoError(t, db.SyncMenuFromConfig(ctx, trimmed))

	visible, err := db.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Margherita", visible[0].Name)
	assert.True(t, visible[0].Price.Equal(decimal.RequireFromString("8.00")), "price updated on re-sync")

	// Removed rows are hidden, never deleted.
	all, err := db.ListProducts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSearchProducts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	require.NoError(t, db.SyncMenuFromConfig(ctx, testMenuConfig()))

	found, err := db.SearchProducts(ctx, "mozzarella")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Margherita", found[0].Name)

	// Hidden products stay out of search results.
	found, err = db.SearchProducts(ctx, "tiramisù")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestOrderRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	order := &models.Order{
		Code:          "A1B2C3",
		CustomerName:  "Luca",
		CustomerPhone: "+393331234567",
		Type:          models.OrderTypeDelivery,
		Address:       "Via Roma 1",
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Margherita", UnitPrice: decimal.RequireFromString("7.50"), Quantity: 2},
		},
		Status: models.OrderStatusNew,
	}
	order.ComputeTotals(decimal.RequireFromString("2.50"))

	require.NoError(t, db.CreateOrder(ctx, order))
	require.NotZero(t, order.ID)

	got, err := db.GetOrderByCode(ctx, "A1B2C3")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Luca", got.CustomerName)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("17.50")))

	require.NoError(t, db.UpdateOrderStatus(ctx, order.ID, models.OrderStatusConfirmed))
	got, err = db.GetOrderByCode(ctx, "A1B2C3")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, got.Status)

	missing, err := db.GetOrderByCode(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReservationRoundTrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	at := time.Date(2026, time.March, 6, 20, 0, 0, 0, time.UTC)
	r := &models.Reservation{
		Code:          "R1",
		CustomerName:  "Giulia",
		CustomerPhone: "+393337654321",
		Guests:        4,
		At:            at,
		Status:        models.ReservationStatusPending,
	}
	require.NoError(t, db.CreateReservation(ctx, r))

	listed, err := db.ListReservations(ctx, at.Add(-time.Hour), at.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Giulia", listed[0].CustomerName)
	assert.Equal(t, 4, listed[0].Guests)
}

func TestSettings(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	value, err := db.GetSetting(ctx, SettingBannerText, "benvenuti")
	require.NoError(t, err)
	assert.Equal(t, "benvenuti", value)

	require.NoError(t, db.SetSetting(ctx, SettingBannerText, "chiusi per ferie"))
	require.NoError(t, db.SetSetting(ctx, SettingBannerText, "riapriamo lunedì"))

	value, err = db.GetSetting(ctx, SettingBannerText, "")
	require.NoError(t, err)
	assert.Equal(t, "riapriamo lunedì", value)

	all, err := db.AllSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{SettingBannerText: "riapriamo lunedì"}, all)
}
