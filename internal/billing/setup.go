package billing

import (
	"log"

	"github.com/mnatlas/atlas-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "billing"); err != nil {
		log.Fatal("Failed to ensure schema billing: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(&Customer{}, &Subscription{}, &WebhookEvent{}); err != nil {
		log.Fatal("Failed to auto-migrate billing tables", err)
	}
}
