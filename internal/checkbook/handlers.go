package checkbook

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mnatlas/atlas-backend/internal/db"
)

// GetBudgets handles GET /checkbook/budgets?period=&agency=
func GetBudgets(w http.ResponseWriter, r *http.Request) {
	q := db.DB.WithContext(r.Context()).Model(&Budget{})

	if p := r.URL.Query().Get("period"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil {
			http.Error(w, "Invalid period", http.StatusBadRequest)
			return
		}
		q = q.Where("budget_period = ?", v)
	}
	if a := r.URL.Query().Get("agency"); a != "" {
		q = q.Where("agency = ?", a)
	}

	var rows []Budget
	if err := q.Order("agency, fund, program, activity").Limit(500).Find(&rows).Error; err != nil {
		http.Error(w, "Failed to fetch budgets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// AgencySpending is one line of the per-agency rollup.
type AgencySpending struct {
	Agency       string  `json:"agency"`
	SpendAmount  float64 `json:"spend_amount"`
	BudgetAmount float64 `json:"budget_amount"`
}

// GetAgencySpending handles GET /checkbook/budgets/agencies?period=
// Returns total spend vs budget per agency for one budget period.
func GetAgencySpending(w http.ResponseWriter, r *http.Request) {
	period, err := strconv.Atoi(r.URL.Query().Get("period"))
	if err != nil {
		http.Error(w, "period is required", http.StatusBadRequest)
		return
	}

	var rows []AgencySpending
	err = db.DB.WithContext(r.Context()).Raw(`
		SELECT agency,
		       SUM(spend_amount)  AS spend_amount,
		       SUM(budget_amount) AS budget_amount
		FROM checkbook.budgets
		WHERE budget_period = ?
		GROUP BY agency
		ORDER BY SUM(spend_amount) DESC
	`, period).Scan(&rows).Error
	if err != nil {
		http.Error(w, "Failed to fetch agency spending", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}
