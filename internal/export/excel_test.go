package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"trattoria/internal/models"
)

func TestOrdersReport(t *testing.T) {
	order := models.Order{
		Code:          "A1B2C3",
		CustomerName:  "Luca",
		CustomerPhone: "+393331234567",
		Type:          models.OrderTypeDelivery,
		Items: []models.OrderItem{
			{Name: "Margherita", UnitPrice: decimal.RequireFromString("7.50"), Quantity: 2},
			{Name: "Diavola", UnitPrice: decimal.RequireFromString("9.00"), Quantity: 1},
		},
		Status:    models.OrderStatusNew,
		CreatedAt: time.Date(2026, time.March, 6, 20, 0, 0, 0, time.UTC),
	}
	order.ComputeTotals(decimal.RequireFromString("2.50"))

	var buf bytes.Buffer
	require.NoError(t, OrdersReport(&buf, []models.Order{order}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ordini")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Codice", rows[0][0])
	assert.Equal(t, "A1B2C3", rows[1][0])
	assert.Equal(t, "2x Margherita, 1x Diavola", rows[1][5])
	assert.Equal(t, "26.50", rows[1][8])
}

func TestOrdersReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OrdersReport(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Ordini")
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
