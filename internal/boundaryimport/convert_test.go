package boundaryimport

import (
	"strings"
	"testing"
)

// TestConvertShapefile_MissingSource: a missing source file must fail before
// any subprocess is spawned, with the path in the message.
func TestConvertShapefile_MissingSource(t *testing.T) {
	_, err := ConvertShapefile("/nonexistent/bdry_counties.shp")
	if err == nil {
		t.Fatal("expected error for missing shapefile")
	}
	if !strings.Contains(err.Error(), "shapefile not found") {
		t.Errorf("expected not-found message, got: %v", err)
	}
	if !strings.Contains(err.Error(), "/nonexistent/bdry_counties.shp") {
		t.Errorf("expected path in message, got: %v", err)
	}
}
