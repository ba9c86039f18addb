package mentions

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Pin is one geotagged mention dropped on the map.
type Pin struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     string         `gorm:"index;not null" json:"user_id"`
	Title      string         `gorm:"not null" json:"title"`
	Body       string         `json:"body"`
	Category   string         `gorm:"index;size:50" json:"category"`
	Tags       pq.StringArray `gorm:"type:text[]" json:"tags"`
	Lat        float64        `gorm:"not null" json:"lat"`
	Lng        float64        `gorm:"not null" json:"lng"`
	CountyName string         `gorm:"size:100" json:"county_name"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (Pin) TableName() string { return "mentions.pins" }

// Collection is a user-curated set of pins shown on their profile.
type Collection struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	IsPublic  bool      `gorm:"default:true" json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}

func (Collection) TableName() string { return "mentions.collections" }

type CollectionPin struct {
	CollectionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"collection_id"`
	PinID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"pin_id"`
	AddedAt      time.Time `json:"added_at"`
}

func (CollectionPin) TableName() string { return "mentions.collection_pins" }
