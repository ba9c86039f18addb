package boundaryimport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// batchSize matches the original importers: 50 rows per insert.
const batchSize = 50

type Config struct {
	ShapefilePath string
	Kind          string
	DatabaseURL   string
	Wipe          bool
}

// Summary is the end-of-run accounting printed by the CLI. Imported counts
// only rows that actually landed; a failed batch subtracts its whole batch.
type Summary struct {
	Features      int
	Dropped       int
	Groups        int
	Linked        int
	Imported      int
	FailedBatches int
}

// batchWriter is the destination-table seam. The gorm implementation is used
// in production; tests substitute an in-memory one.
type batchWriter interface {
	Clear(kind string) error
	Insert(batch []Boundary) error
}

type gormWriter struct {
	db *gorm.DB
}

func (w *gormWriter) Clear(kind string) error {
	return w.db.Where("kind = ?", kind).Delete(&Boundary{}).Error
}

func (w *gormWriter) Insert(batch []Boundary) error {
	return w.db.Create(&batch).Error
}

// Run executes one import: convert, normalize, group, link, clear, insert.
// Row- and batch-level problems are logged and absorbed; only pipeline-level
// failures surface as an error (and a non-zero exit in the CLI).
func Run(cfg Config) (Summary, error) {
	var sum Summary

	if !cfg.Wipe {
		return sum, errors.New("refusing to run: set Wipe=true (this importer clears the kind's boundary rows)")
	}

	kind, err := KindByName(cfg.Kind)
	if err != nil {
		return sum, err
	}

	features, err := ConvertShapefile(cfg.ShapefilePath)
	if err != nil {
		return sum, err
	}
	sum.Features = len(features)

	records, dropped := Normalize(kind, features)
	sum.Dropped = dropped

	groups := GroupRecords(records)
	sum.Groups = len(groups)
	log.Printf("[import] %s: %d features -> %d records -> %d groups", kind.Kind, len(features), len(records), len(groups))

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return sum, fmt.Errorf("connect database: %w", err)
	}

	// Link failures downgrade to "no links": the import still runs, rows
	// just carry a null county id.
	idx, err := fetchCountyIndex(db)
	if err != nil {
		log.Printf("[import] WARNING: county lookup failed, boundaries will be unlinked: %v", err)
		idx = nil
	}
	links, matched := linkGroups(groups, idx)
	sum.Linked = matched

	rows := buildRows(kind, groups, links)

	imported, failedBatches, err := writeRows(&gormWriter{db: db}, kind.Kind, rows)
	sum.Imported = imported
	sum.FailedBatches = failedBatches
	if err != nil {
		return sum, err
	}

	log.Printf("[import] %s: imported %d/%d groups (%d dropped features, %d failed batches)",
		kind.Kind, sum.Imported, sum.Groups, sum.Dropped, sum.FailedBatches)
	return sum, nil
}

// buildRows renders each group as a destination row with its geometries
// wrapped in one GeoJSON FeatureCollection.
func buildRows(kind Kind, groups []Group, links []*uuid.UUID) []Boundary {
	rows := make([]Boundary, 0, len(groups))
	for i, g := range groups {
		fc := FeatureCollection{
			Type:     "FeatureCollection",
			Features: make([]Feature, 0, len(g.Geometries)),
		}
		for _, geom := range g.Geometries {
			geom := geom
			fc.Features = append(fc.Features, Feature{
				Type:       "Feature",
				Properties: map[string]interface{}{},
				Geometry:   &geom,
			})
		}
		raw, err := json.Marshal(fc)
		if err != nil {
			log.Printf("[import] WARNING: marshal geometry for %s failed, skipping: %v", g.Name, err)
			continue
		}

		row := Boundary{
			Kind:        kind.Kind,
			Name:        g.Name,
			Code:        g.Code,
			ExternalID:  g.ExternalID,
			Description: fmt.Sprintf("%s: %s", kind.Description, g.Name),
			Publisher:   kind.Publisher,
			Geometry:    raw,
		}
		if i < len(links) {
			row.CountyID = links[i]
		}
		rows = append(rows, row)
	}
	return rows
}

// writeRows clears the kind's rows and inserts the new ones in fixed-size
// batches. A failed batch is logged and skipped; the loop always reaches the
// next batch. Clear failure is pipeline-level: nothing was replaced.
func writeRows(w batchWriter, kind string, rows []Boundary) (imported, failedBatches int, err error) {
	if err := w.Clear(kind); err != nil {
		return 0, 0, fmt.Errorf("clear %s boundaries: %w", kind, err)
	}

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		if err := w.Insert(batch); err != nil {
			log.Printf("[import] WARNING: batch %d-%d failed: %v", start, end, err)
			failedBatches++
			continue
		}
		imported += len(batch)
	}
	return imported, failedBatches, nil
}
