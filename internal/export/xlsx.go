package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"subtracker/internal/core"
)

const (
	sheetSubscriptions = "Subscriptions"
	sheetTrend         = "Trend"
)

var subscriptionHeader = []string{
	"Name", "Provider", "Category", "Cost", "Currency", "Billing Cycle",
	"Monthly Cost", "Start Date", "Expiry Date", "Days Left", "Status",
}

// WriteWorkbook writes the full subscription list and the expense trend to
// an xlsx file at path.
func WriteWorkbook(path string, snap core.Snapshot, months int) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSubscriptions); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	categoryNames := map[string]string{}
	for _, c := range snap.Categories {
		categoryNames[c.ID.String()] = c.Name
	}

	for col, h := range subscriptionHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetSubscriptions, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, sub := range snap.Subscriptions {
		startDate := ""
		if !sub.StartDate.IsZero() {
			startDate = sub.StartDate.Format("2006-01-02")
		}
		values := []any{
			sub.Name,
			sub.Provider,
			categoryNames[sub.CategoryID.String()],
			sub.Cost.String(),
			string(sub.Currency),
			string(sub.BillingCycle),
			core.Round2(core.MonthlyCost(sub.Cost, sub.BillingCycle)).StringFixed(2),
			startDate,
			sub.ExpiryDate.Format("2006-01-02"),
			core.DaysLeft(sub.ExpiryDate, snap.Now),
			string(core.StatusOf(sub.ExpiryDate, snap.Now)),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetSubscriptions, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	if _, err := f.NewSheet(sheetTrend); err != nil {
		return fmt.Errorf("create trend sheet: %w", err)
	}
	for col, h := range []string{"Month", "CNY", "USD"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetTrend, cell, h); err != nil {
			return fmt.Errorf("write trend header: %w", err)
		}
	}
	for i, p := range core.ComputeExpenseTrend(snap, months) {
		values := []any{p.Key, p.CNY.StringFixed(2), p.USD.StringFixed(2)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetTrend, cell, v); err != nil {
				return fmt.Errorf("write trend row %d: %w", i+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
