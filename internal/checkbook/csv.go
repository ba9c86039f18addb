package checkbook

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseBudgetCSV reads one budget extract. Rows without a parseable budget
// period (the extracts end with summary rows) are skipped and counted.
func ParseBudgetCSV(r io.Reader) (rows []Budget, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		// The state portal exports with a UTF-8 BOM.
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("read row: %w", err)
		}

		period, ok := parseInteger(field(rec, "Budget Period"))
		if !ok {
			skipped++
			continue
		}

		rows = append(rows, Budget{
			BudgetPeriod:          period,
			Agency:                field(rec, "Agency"),
			Fund:                  field(rec, "Fund"),
			Program:               field(rec, "Program"),
			Activity:              field(rec, "Activity"),
			AvailableAmount:       parseDecimal(field(rec, "Available Amount")),
			ObligatedAmount:       parseDecimal(field(rec, "Obligated Amount")),
			SpendAmount:           parseDecimal(field(rec, "Spend Amount")),
			RemainingAmount:       parseDecimal(field(rec, "Remaining Amount")),
			BudgetAmount:          parseDecimal(field(rec, "Budget Amount")),
			BudgetRemainingAmount: parseDecimal(field(rec, "Budget Remaining Amount")),
		})
	}
	return rows, skipped, nil
}

// parseDecimal strips thousands separators; blank or unparseable amounts
// become zero, matching the source extracts' meaning.
func parseDecimal(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInteger(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
