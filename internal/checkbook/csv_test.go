package checkbook

import (
	"strings"
	"testing"
)

const sampleCSV = "\ufeffBudget Period,Agency,Fund,Program,Activity,Available Amount,Obligated Amount,Spend Amount,Remaining Amount,Budget Amount,Budget Remaining Amount\n" +
	"2024,Administration,General Fund,Operations,Facilities,\"1,250,000.50\",\"300,000\",\"900,000.25\",\"50,000.25\",\"1,250,000.50\",\"350,000.25\"\n" +
	"2024,Education,General Fund,K-12,Aid,,,,,,\n" +
	"Totals,,,,,\"1,250,000.50\",,,,,\n"

func TestParseBudgetCSV(t *testing.T) {
	rows, skipped, err := ParseBudgetCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skipped != 1 {
		t.Errorf("expected trailing summary row skipped, got %d skipped", skipped)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	admin := rows[0]
	if admin.BudgetPeriod != 2024 || admin.Agency != "Administration" {
		t.Errorf("unexpected first row identity: %+v", admin)
	}
	if admin.AvailableAmount != 1250000.50 {
		t.Errorf("expected thousands separators stripped, got %v", admin.AvailableAmount)
	}
	if admin.SpendAmount != 900000.25 {
		t.Errorf("expected spend 900000.25, got %v", admin.SpendAmount)
	}

	// Blank amounts mean zero, not an error.
	edu := rows[1]
	if edu.Agency != "Education" || edu.SpendAmount != 0 || edu.BudgetAmount != 0 {
		t.Errorf("expected blank amounts parsed as zero, got %+v", edu)
	}
}

func TestParseBudgetCSV_HeaderOnly(t *testing.T) {
	rows, skipped, err := ParseBudgetCSV(strings.NewReader("Budget Period,Agency\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 || skipped != 0 {
		t.Errorf("expected empty result for header-only file, got %d rows %d skipped", len(rows), skipped)
	}
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1,250,000.50", 1250000.50},
		{"300000", 300000},
		{"", 0},
		{"n/a", 0},
	}
	for _, c := range cases {
		if got := parseDecimal(c.in); got != c.want {
			t.Errorf("parseDecimal(%q): expected %v, got %v", c.in, c.want, got)
		}
	}
}
