package boundaryimport

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
)

// ConvertShapefile shells out to ogr2ogr to turn a shapefile into GeoJSON,
// reprojected to WGS84, and returns the parsed features. The temp file is
// removed on every path.
func ConvertShapefile(path string) ([]Feature, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("shapefile not found: %s", path)
	}

	tmp, err := os.CreateTemp("", "boundaries-*.geojson")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	// ogr2ogr refuses to write onto an existing file.
	os.Remove(tmpPath)
	defer os.Remove(tmpPath)

	cmd := exec.Command("ogr2ogr", "-f", "GeoJSON", "-t_srs", "EPSG:4326", tmpPath, path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if isToolMissing(err, out) {
			return nil, fmt.Errorf("ogr2ogr not available: %w (install GDAL, e.g. `apt-get install gdal-bin` or `brew install gdal`)", err)
		}
		return nil, fmt.Errorf("ogr2ogr failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	raw, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read converted geojson: %w", err)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parse converted geojson: %w", err)
	}

	log.Printf("[import] converted %s: %d features", path, len(fc.Features))
	return fc.Features, nil
}

func isToolMissing(err error, out []byte) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	msg := strings.ToLower(string(out))
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no such file or directory: 'ogr2ogr'")
}
