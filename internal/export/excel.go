// Package export renders back-office reports as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"trattoria/internal/models"
)

var orderColumns = []string{
	"Codice", "Data", "Cliente", "Telefono", "Tipo", "Articoli",
	"Subtotale", "Consegna", "Totale", "Stato",
}

// OrdersReport writes an xlsx report of the given orders to w, one row
// per order, newest ordering preserved from the input.
func OrdersReport(w io.Writer, orders []models.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Ordini"
	f.SetSheetName("Sheet1", sheet)

	if err := writeHeader(f, sheet, orderColumns); err != nil {
		return err
	}

	for i, o := range orders {
		row := []interface{}{
			o.Code,
			o.CreatedAt.Format("02/01/2006 15:04"),
			o.CustomerName,
			o.CustomerPhone,
			o.Type,
			itemsSummary(o.Items),
			o.Subtotal.StringFixed(2),
			o.DeliveryFee.StringFixed(2),
			o.Total.StringFixed(2),
			o.Status,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, columns []string) error {
	if err := writeRowStrings(f, sheet, 1, columns); err != nil {
		return err
	}

	// Bold header row; styling failures are cosmetic and ignored.
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}
	return nil
}

func writeRowStrings(f *excelize.File, sheet string, rowNum int, values []string) error {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return writeRow(f, sheet, rowNum, row)
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func itemsSummary(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}
