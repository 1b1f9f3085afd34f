package infra

// excel.go — sales report export via excelize. One sheet, header row, one
// row per sale, summary totals at the bottom.

import (
	"bytes"
	"fmt"

	"github.com/jmsleo/kreasiPOS/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// WriteSalesReportXLSX renders the given sales into an xlsx workbook and
// returns its bytes, ready to stream as an attachment.
func WriteSalesReportXLSX(sales []model.Sale) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("excel: new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Receipt", "Date", "Items", "Payment", "Discount", "Tax", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	total := decimal.Zero
	for row, s := range sales {
		itemCount := 0
		for _, it := range s.Items {
			itemCount += it.Quantity
		}
		values := []interface{}{
			s.ReceiptNumber,
			s.CreatedAt.Format("2006-01-02 15:04"),
			itemCount,
			s.PaymentMethod,
			s.DiscountAmount.InexactFloat64(),
			s.TaxAmount.InexactFloat64(),
			s.TotalAmount.InexactFloat64(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
		total = total.Add(s.TotalAmount)
	}

	// Summary row
	sumRow := len(sales) + 3
	labelCell, _ := excelize.CoordinatesToCellName(6, sumRow)
	totalCell, _ := excelize.CoordinatesToCellName(7, sumRow)
	_ = f.SetCellValue(sheet, labelCell, "TOTAL")
	_ = f.SetCellValue(sheet, totalCell, total.InexactFloat64())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: write: %w", err)
	}
	return buf.Bytes(), nil
}
