package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"loan-calculator/money"
)

const (
	summarySheet  = "Summary"
	scheduleSheet = "Amortization Schedule"

	// built-in number format "#,##0.00"
	numFmtThousands2 = 4
)

// WriteXLSX writes a workbook with a summary sheet and the schedule sheet.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	idx, err := f.NewSheet(scheduleSheet)
	if err != nil {
		return fmt.Errorf("create schedule sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtThousands2})
	if err != nil {
		return fmt.Errorf("create amount style: %w", err)
	}

	if err := writeSummarySheet(f, doc, headerStyle); err != nil {
		return err
	}
	if err := writeScheduleSheet(f, doc, headerStyle, amountStyle); err != nil {
		return err
	}

	f.SetActiveSheet(idx)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, doc Document, headerStyle int) error {
	rows := append([][2]string{{"Concept", "Value"}}, doc.summaryRows()...)
	for i, r := range rows {
		for j, v := range r {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return fmt.Errorf("set summary cell %s: %w", cell, err)
			}
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("style summary header: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "B", 26)
}

func writeScheduleSheet(f *excelize.File, doc Document, headerStyle, amountStyle int) error {
	for j, h := range scheduleHeader {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(scheduleSheet, cell, h); err != nil {
			return fmt.Errorf("set header cell %s: %w", cell, err)
		}
	}

	for i, row := range doc.Result.Schedule {
		values := []any{
			row.Index,
			money.Round(row.Payment),
			money.Round(row.PrincipalPortion),
			money.Round(row.InterestPortion),
			money.Round(row.RemainingBalance),
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(scheduleSheet, cell, v); err != nil {
				return fmt.Errorf("set schedule cell %s: %w", cell, err)
			}
		}
	}

	last := len(doc.Result.Schedule) + 1
	if err := f.SetCellStyle(scheduleSheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("style schedule header: %w", err)
	}
	if last > 1 {
		if err := f.SetCellStyle(scheduleSheet, "B2", fmt.Sprintf("E%d", last), amountStyle); err != nil {
			return fmt.Errorf("style schedule amounts: %w", err)
		}
	}
	return f.SetColWidth(scheduleSheet, "A", "E", 16)
}
