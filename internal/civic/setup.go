package civic

import (
	"log"

	"github.com/mnatlas/atlas-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "civic"); err != nil {
		log.Fatal("Failed to ensure schema civic: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(&County{}, &Boundary{}); err != nil {
		log.Fatal("Failed to auto-migrate civic tables", err)
	}

	// Case insensitive uniqueness: one county per name, one boundary per
	// name within a kind (the import's grouping step guarantees this).
	if err := db.DB.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS counties_name_ci_unique
        ON civic.counties (LOWER(name));
    `).Error; err != nil {
		log.Fatal("Failed to create counties_name_ci_unique", err)
	}
	if err := db.DB.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS boundaries_kind_name_ci_unique
        ON civic.boundaries (kind, LOWER(name));
    `).Error; err != nil {
		log.Fatal("Failed to create boundaries_kind_name_ci_unique", err)
	}
}
