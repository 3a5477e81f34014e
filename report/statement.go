// Package report renders payout statements as XLSX workbooks.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/warp/workforce-ledger/workforce"
)

// SheetName is the worksheet the statement is written to.
const SheetName = "Payouts"

var headers = []string{
	"Labourer ID", "Labourer", "Role", "Contractor",
	"Days", "Hours", "Rate", "Payable",
}

// WritePayoutStatement writes summaries as a single-sheet workbook: a bold
// header row, one row per summary in the given order, then a total row.
func WritePayoutStatement(w io.Writer, from, to workforce.Date, summaries []workforce.PayoutSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       fmt.Sprintf("Payout statement %s to %s", from, to),
		Subject:     "Labour payouts",
		Description: fmt.Sprintf("%d labourer(s)", len(summaries)),
	}); err != nil {
		return fmt.Errorf("set properties: %w", err)
	}

	for i, header := range headers {
		if err := setCell(f, i+1, 1, header); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, s := range summaries {
		row := i + 2
		values := []any{
			string(s.LabourerID),
			s.LabourerName,
			s.Role,
			s.ContractorName,
			s.TotalDays,
			s.TotalHours.InexactFloat64(),
			s.Rate.InexactFloat64(),
			s.PayableAmount.InexactFloat64(),
		}
		for col, value := range values {
			if err := setCell(f, col+1, row, value); err != nil {
				return err
			}
		}
	}

	totalRow := len(summaries) + 2
	if err := setCell(f, 1, totalRow, "Total"); err != nil {
		return err
	}
	if err := setCell(f, len(headers), totalRow, workforce.TotalPayable(summaries).InexactFloat64()); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetName, totalRow, totalRow, bold); err != nil {
		return fmt.Errorf("style total: %w", err)
	}

	if err := f.SetColWidth(SheetName, "A", "H", 15); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "B", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, value); err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return nil
}
