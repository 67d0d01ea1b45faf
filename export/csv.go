package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"loan-calculator/money"
)

// WriteCSV writes one header line and one line per payment. Amounts carry
// two decimals and no currency symbol so spreadsheets parse them as numbers.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(scheduleHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range doc.Result.Schedule {
		record := []string{
			strconv.Itoa(row.Index),
			money.Plain(row.Payment),
			money.Plain(row.PrincipalPortion),
			money.Plain(row.InterestPortion),
			money.Plain(row.RemainingBalance),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.Index, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
