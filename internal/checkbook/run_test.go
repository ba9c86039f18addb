package checkbook

import (
	"fmt"
	"testing"
)

// mockBudgetWriter marks 1-based batch numbers to fail and can report fewer
// rows than the batch to simulate conflict-skipped duplicates.
type mockBudgetWriter struct {
	failBatches map[int]bool
	skipPerCall int
	batchSeen   int
	rows        int
}

func (m *mockBudgetWriter) Insert(batch []Budget) (int, error) {
	m.batchSeen++
	if m.failBatches[m.batchSeen] {
		return 0, fmt.Errorf("simulated insert failure on batch %d", m.batchSeen)
	}
	n := len(batch) - m.skipPerCall
	if n < 0 {
		n = 0
	}
	m.rows += n
	return n, nil
}

func makeBudgets(n int) []Budget {
	rows := make([]Budget, n)
	for i := range rows {
		rows[i] = Budget{BudgetPeriod: 2024, Agency: fmt.Sprintf("agency-%04d", i)}
	}
	return rows
}

// TestInsertBatches_FailedBatchContinues: a failure on batch 2 of 3 must not
// prevent batch 3, and the inserted count must reflect only landed rows.
func TestInsertBatches_FailedBatchContinues(t *testing.T) {
	w := &mockBudgetWriter{failBatches: map[int]bool{2: true}}
	rows := makeBudgets(2500) // batches: 1000, 1000, 500

	inserted, failed := insertBatches(w, rows)

	if w.batchSeen != 3 {
		t.Errorf("expected 3 batches attempted, got %d", w.batchSeen)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed batch, got %d", failed)
	}
	if inserted != 1500 {
		t.Errorf("expected inserted=1500 (1000+500), got %d", inserted)
	}
}

// TestInsertBatches_DuplicatesNotCounted: conflict-skipped rows reduce the
// reported insert count without being errors.
func TestInsertBatches_DuplicatesNotCounted(t *testing.T) {
	w := &mockBudgetWriter{skipPerCall: 10}
	rows := makeBudgets(1200) // batches: 1000, 200

	inserted, failed := insertBatches(w, rows)
	if failed != 0 {
		t.Errorf("expected no failed batches, got %d", failed)
	}
	if inserted != 1180 {
		t.Errorf("expected inserted=1180 (1200 minus 10 per batch), got %d", inserted)
	}
}

func TestInsertBatches_Empty(t *testing.T) {
	w := &mockBudgetWriter{}
	inserted, failed := insertBatches(w, nil)
	if inserted != 0 || failed != 0 || w.batchSeen != 0 {
		t.Errorf("expected no work for no rows, got inserted=%d failed=%d batches=%d",
			inserted, failed, w.batchSeen)
	}
}
