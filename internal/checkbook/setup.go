package checkbook

import (
	"log"

	"github.com/mnatlas/atlas-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "checkbook"); err != nil {
		log.Fatal("Failed to ensure schema checkbook: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(&Budget{}); err != nil {
		log.Fatal("Failed to auto-migrate checkbook tables", err)
	}

	// The extracts have no row identifier, so re-running an import relies on
	// the full value tuple being unique; inserts conflict-skip against it.
	if err := db.DB.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS budgets_row_unique
        ON checkbook.budgets (budget_period, agency, fund, program, activity,
            available_amount, obligated_amount, spend_amount, remaining_amount,
            budget_amount, budget_remaining_amount);
    `).Error; err != nil {
		log.Fatal("Failed to create budgets_row_unique", err)
	}
}
