package checkbook

import (
	"time"

	"github.com/google/uuid"
)

// Budget is one line of the state budget extract: the amounts for one
// agency/fund/program/activity within a budget period.
type Budget struct {
	ID                    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BudgetPeriod          int       `gorm:"index;not null" json:"budget_period"`
	Agency                string    `gorm:"index" json:"agency"`
	Fund                  string    `json:"fund"`
	Program               string    `json:"program"`
	Activity              string    `json:"activity"`
	AvailableAmount       float64   `gorm:"type:numeric" json:"available_amount"`
	ObligatedAmount       float64   `gorm:"type:numeric" json:"obligated_amount"`
	SpendAmount           float64   `gorm:"type:numeric" json:"spend_amount"`
	RemainingAmount       float64   `gorm:"type:numeric" json:"remaining_amount"`
	BudgetAmount          float64   `gorm:"type:numeric" json:"budget_amount"`
	BudgetRemainingAmount float64   `gorm:"type:numeric" json:"budget_remaining_amount"`
	CreatedAt             time.Time `json:"created_at"`
}

func (Budget) TableName() string { return "checkbook.budgets" }
