package civic

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// County is the canonical entity table boundary imports link against.
type County struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"` // CI-unique index created in Init
	FIPSCode   string    `gorm:"size:10" json:"fips_code"`
	GNISID     string    `gorm:"size:20" json:"gnis_id"`
	Seat       string    `json:"seat"`
	Population int       `json:"population"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (County) TableName() string { return "civic.counties" }

// Boundary is one imported civic boundary. Geometry holds a GeoJSON
// FeatureCollection exactly as the import pipeline wrote it; the server never
// interprets coordinates.
type Boundary struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Kind        string         `gorm:"index;size:32;not null" json:"kind"`
	Name        string         `gorm:"not null" json:"name"`
	Code        string         `json:"code"`
	ExternalID  string         `json:"external_id"`
	CountyID    *uuid.UUID     `gorm:"type:uuid;index" json:"county_id"`
	Description string         `json:"description"`
	Publisher   string         `json:"publisher"`
	Geometry    datatypes.JSON `gorm:"type:jsonb" json:"geometry"`
}

func (Boundary) TableName() string { return "civic.boundaries" }
