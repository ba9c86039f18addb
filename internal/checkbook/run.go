package checkbook

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// batchSize matches the original budget importer: 1000 rows per insert.
const batchSize = 1000

type ImportConfig struct {
	Dir         string // directory holding <period>_ALL_budgets.csv extracts
	Periods     []int
	DatabaseURL string
}

type ImportSummary struct {
	Files         int
	Rows          int
	Skipped       int
	Inserted      int
	FailedBatches int
}

// budgetWriter is the destination-table seam. Insert reports how many rows
// actually landed; conflict-skipped duplicates don't count.
type budgetWriter interface {
	Insert(batch []Budget) (int, error)
}

type gormBudgetWriter struct {
	db *gorm.DB
}

func (w *gormBudgetWriter) Insert(batch []Budget) (int, error) {
	res := w.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&batch)
	return int(res.RowsAffected), res.Error
}

// ImportBudgets loads every period's extract found in the directory. Unlike
// the boundary importer this never clears: rows conflict-skip against the
// value-tuple index, so re-runs only add what is new.
func ImportBudgets(cfg ImportConfig) (ImportSummary, error) {
	var sum ImportSummary

	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return sum, fmt.Errorf("connect database: %w", err)
	}
	w := &gormBudgetWriter{db: gdb}

	for _, period := range cfg.Periods {
		path := filepath.Join(cfg.Dir, fmt.Sprintf("%d_ALL_budgets.csv", period))

		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("[checkbook] %d: no extract at %s, skipping", period, path)
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("open %s: %w", path, err)
		}

		rows, skipped, err := ParseBudgetCSV(f)
		f.Close()
		if err != nil {
			return sum, fmt.Errorf("parse %s: %w", path, err)
		}
		sum.Files++
		sum.Rows += len(rows)
		sum.Skipped += skipped

		inserted, failed := insertBatches(w, rows)
		sum.Inserted += inserted
		sum.FailedBatches += failed
		log.Printf("[checkbook] %d: %d rows (%d skipped), %d inserted, %d failed batches",
			period, len(rows), skipped, inserted, failed)
	}
	return sum, nil
}

// insertBatches writes rows in fixed-size batches. A failed batch is logged
// and skipped; the loop always reaches the next batch.
func insertBatches(w budgetWriter, rows []Budget) (inserted, failedBatches int) {
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		n, err := w.Insert(rows[start:end])
		if err != nil {
			log.Printf("[checkbook] WARNING: batch %d-%d failed: %v", start, end, err)
			failedBatches++
			continue
		}
		inserted += n
	}
	return inserted, failedBatches
}
