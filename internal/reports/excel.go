// Package reports — выгрузка данных CRM в Excel.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/eywa-space/crm/internal/domain/subscriptions"
)

// SubscriptionsXLSX собирает файл с агрегированными абонементами.
func SubscriptionsXLSX(rows []subscriptions.Row) ([]byte, string, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"client",
		"client_id",
		"service",
		"left",
		"total",
		"band",
		"purchased_at",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", err
	}

	row := 2
	for _, r := range rows {
		excelRow := []interface{}{
			r.Client,
			r.ClientID,
			r.Type,
			r.Left,
			r.Total,
			string(subscriptions.BalanceBand(r.Left, r.Total)),
			r.PurchasedAt.Format("2006-01-02"),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, "", err
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, "", err
	}

	fileName := fmt.Sprintf("subscriptions_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), fileName, nil
}
