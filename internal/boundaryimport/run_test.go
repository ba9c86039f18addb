package boundaryimport

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// mockWriter is an in-memory batchWriter. failBatches marks 1-based batch
// numbers whose insert should fail.
type mockWriter struct {
	rows        []Boundary
	clearErr    error
	failBatches map[int]bool
	batchSeen   int
}

func (m *mockWriter) Clear(kind string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	var kept []Boundary
	for _, r := range m.rows {
		if r.Kind != kind {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *mockWriter) Insert(batch []Boundary) error {
	m.batchSeen++
	if m.failBatches[m.batchSeen] {
		return fmt.Errorf("simulated insert failure on batch %d", m.batchSeen)
	}
	m.rows = append(m.rows, batch...)
	return nil
}

func makeRows(kind string, n int) []Boundary {
	rows := make([]Boundary, n)
	for i := range rows {
		rows[i] = Boundary{Kind: kind, Name: fmt.Sprintf("boundary-%03d", i)}
	}
	return rows
}

// TestWriteRows_FailedBatchDoesNotStopLaterBatches: a failure on batch 2 of 3
// must not prevent batch 3, and the imported count must equal only what
// actually landed.
func TestWriteRows_FailedBatchDoesNotStopLaterBatches(t *testing.T) {
	w := &mockWriter{failBatches: map[int]bool{2: true}}
	rows := makeRows("county", 130) // batches: 50, 50, 30

	imported, failedBatches, err := writeRows(w, "county", rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.batchSeen != 3 {
		t.Errorf("expected 3 batches attempted, got %d", w.batchSeen)
	}
	if failedBatches != 1 {
		t.Errorf("expected 1 failed batch, got %d", failedBatches)
	}
	if imported != 80 {
		t.Errorf("expected imported=80 (50+30), got %d", imported)
	}
	if len(w.rows) != 80 {
		t.Errorf("expected 80 rows persisted, got %d", len(w.rows))
	}
}

// TestWriteRows_ClearFailureIsFatal: if the destination can't be cleared,
// nothing should be inserted and the error surfaces.
func TestWriteRows_ClearFailureIsFatal(t *testing.T) {
	w := &mockWriter{clearErr: errors.New("permission denied")}

	imported, failedBatches, err := writeRows(w, "county", makeRows("county", 10))
	if err == nil {
		t.Fatal("expected error from failed clear")
	}
	if imported != 0 || failedBatches != 0 || w.batchSeen != 0 {
		t.Errorf("expected no inserts after clear failure, got imported=%d failed=%d batches=%d",
			imported, failedBatches, w.batchSeen)
	}
}

// TestWriteRows_IdempotentConvergence: running the same import twice leaves
// the table with identical content (clear-then-insert).
func TestWriteRows_IdempotentConvergence(t *testing.T) {
	w := &mockWriter{}
	rows := makeRows("county", 87)

	if _, _, err := writeRows(w, "county", rows); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := len(w.rows)

	if _, _, err := writeRows(w, "county", rows); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(w.rows) != first || len(w.rows) != 87 {
		t.Errorf("expected 87 rows after both runs, got %d then %d", first, len(w.rows))
	}
	for i, r := range w.rows {
		if r.Name != fmt.Sprintf("boundary-%03d", i) {
			t.Fatalf("row %d: unexpected name %q after second run", i, r.Name)
		}
	}
}

// TestWriteRows_ClearScopedToKind: importing one kind must not touch rows of
// another kind.
func TestWriteRows_ClearScopedToKind(t *testing.T) {
	w := &mockWriter{rows: makeRows("ctu", 5)}

	if _, _, err := writeRows(w, "county", makeRows("county", 3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var ctu, county int
	for _, r := range w.rows {
		switch r.Kind {
		case "ctu":
			ctu++
		case "county":
			county++
		}
	}
	if ctu != 5 || county != 3 {
		t.Errorf("expected 5 ctu + 3 county rows, got %d + %d", ctu, county)
	}
}

// TestBuildRows_GeometryFeatureCollection verifies each row wraps its group's
// geometries in one FeatureCollection, in order, and carries the link id.
func TestBuildRows_GeometryFeatureCollection(t *testing.T) {
	kind := countyKind(t)
	anokaID := uuid.New()

	groups := []Group{
		{Name: "Anoka", Code: "003", Geometries: []Geometry{geom("G1"), geom("G2")}},
		{Name: "Ramsey", Geometries: []Geometry{geom("G3")}},
	}
	links := []*uuid.UUID{&anokaID, nil}

	rows := buildRows(kind, groups, links)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	var fc FeatureCollection
	if err := json.Unmarshal(rows[0].Geometry, &fc); err != nil {
		t.Fatalf("row geometry is not valid JSON: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 2 {
		t.Errorf("expected FeatureCollection with 2 features, got %q with %d", fc.Type, len(fc.Features))
	}
	if coords(*fc.Features[0].Geometry) != coords(geom("G1")) {
		t.Errorf("feature order not preserved: got %s", coords(*fc.Features[0].Geometry))
	}

	if rows[0].CountyID == nil || *rows[0].CountyID != anokaID {
		t.Errorf("expected row 0 linked to %s, got %v", anokaID, rows[0].CountyID)
	}
	if rows[1].CountyID != nil {
		t.Errorf("expected row 1 unlinked, got %v", rows[1].CountyID)
	}
	if rows[0].Publisher != kind.Publisher {
		t.Errorf("expected publisher %q, got %q", kind.Publisher, rows[0].Publisher)
	}
	if !strings.Contains(rows[0].Description, "Anoka") {
		t.Errorf("expected description to mention the boundary name, got %q", rows[0].Description)
	}
}

// TestRun_RequiresWipe mirrors the compass importer's guard: without an
// explicit wipe flag the pipeline refuses to touch the table.
func TestRun_RequiresWipe(t *testing.T) {
	_, err := Run(Config{ShapefilePath: "x.shp", Kind: "county", Wipe: false})
	if err == nil || !strings.Contains(err.Error(), "Wipe=true") {
		t.Errorf("expected refusal without Wipe=true, got %v", err)
	}
}

// TestRun_MissingShapefileIsFatal: the pipeline must fail before any
// subprocess or database work when the source file does not exist.
func TestRun_MissingShapefileIsFatal(t *testing.T) {
	_, err := Run(Config{ShapefilePath: "/nonexistent/counties.shp", Kind: "county", Wipe: true})
	if err == nil || !strings.Contains(err.Error(), "shapefile not found") {
		t.Errorf("expected shapefile-not-found error, got %v", err)
	}
}
