package boundaryimport

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Boundary is the destination row shape. The server's civic module owns the
// migration; this importer only clears and inserts.
type Boundary struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Kind        string         `gorm:"column:kind"`
	Name        string         `gorm:"column:name"`
	Code        string         `gorm:"column:code"`
	ExternalID  string         `gorm:"column:external_id"`
	CountyID    *uuid.UUID     `gorm:"type:uuid;column:county_id"`
	Description string         `gorm:"column:description"`
	Publisher   string         `gorm:"column:publisher"`
	Geometry    datatypes.JSON `gorm:"type:jsonb;column:geometry"`
}

func (Boundary) TableName() string { return "civic.boundaries" }

// County mirrors the canonical entity table used for name linking.
type County struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (County) TableName() string { return "civic.counties" }
