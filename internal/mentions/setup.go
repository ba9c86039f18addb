package mentions

import (
	"log"

	"github.com/mnatlas/atlas-backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "mentions"); err != nil {
		log.Fatal("Failed to ensure schema mentions: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(&Pin{}, &Collection{}, &CollectionPin{}); err != nil {
		log.Fatal("Failed to auto-migrate mentions tables", err)
	}

	// Bbox queries hit lat/lng on every map pan.
	if err := db.DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_pins_lat_lng
		ON mentions.pins (lat, lng);
	`).Error; err != nil {
		log.Fatal("Failed to create idx_pins_lat_lng: ", err)
	}
}
