package civic

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mnatlas/atlas-backend/internal/boundaryimport"
	"github.com/mnatlas/atlas-backend/internal/cache"
	"github.com/mnatlas/atlas-backend/internal/db"
)

const boundaryCacheTTL = 6 * time.Hour

// GetKinds handles GET /civic/kinds
func GetKinds(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"kinds": boundaryimport.KindNames()})
}

// GetBoundariesByKind handles GET /civic/boundaries/{kind}.
// Returns one merged GeoJSON FeatureCollection for the whole layer — the
// shape Mapbox sources consume directly. Payloads are large, so rendered
// layers are cached in Redis per kind.
func GetBoundariesByKind(w http.ResponseWriter, r *http.Request) {
	kind, err := canonicalKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	ctx := r.Context()
	cacheKey := "boundary:" + kind

	if cached := cache.Get(ctx, cacheKey); cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Header().Set("Cache-Control", "public, max-age=300")
		fmt.Fprint(w, cached)
		return
	}

	start := time.Now()
	var rows []Boundary
	if err := db.DB.WithContext(ctx).Where("kind = ?", kind).Order("name").Find(&rows).Error; err != nil {
		http.Error(w, "Failed to fetch boundaries", http.StatusInternalServerError)
		return
	}
	dbDur := time.Since(start)

	merged, err := mergeBoundaryFeatures(rows)
	if err != nil {
		log.Printf("[civic] merge %s boundaries: %v", kind, err)
		http.Error(w, "Failed to render boundaries", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(merged)
	if err != nil {
		http.Error(w, "Failed to render boundaries", http.StatusInternalServerError)
		return
	}

	cache.Set(ctx, cacheKey, string(payload), boundaryCacheTTL)

	addServerTiming(w, [2]string{"dbread", fmt.Sprintf("%.1f", float64(dbDur.Microseconds())/1000)})
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(payload)
}

// boundaryFeature is one rendered map feature: the stored geometry collection
// with identifying properties the front end filters on.
type boundaryFeature struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   json.RawMessage        `json:"geometry,omitempty"`
}

type boundaryCollection struct {
	Type     string            `json:"type"`
	Features []boundaryFeature `json:"features"`
}

// mergeBoundaryFeatures flattens each row's stored FeatureCollection into one
// layer-wide collection, stamping the row's identity onto every feature.
func mergeBoundaryFeatures(rows []Boundary) (boundaryCollection, error) {
	out := boundaryCollection{Type: "FeatureCollection", Features: []boundaryFeature{}}

	for _, row := range rows {
		var fc struct {
			Features []struct {
				Type     string          `json:"type"`
				Geometry json.RawMessage `json:"geometry"`
			} `json:"features"`
		}
		if err := json.Unmarshal(row.Geometry, &fc); err != nil {
			return out, fmt.Errorf("boundary %s: %w", row.Name, err)
		}

		props := map[string]interface{}{
			"name":        row.Name,
			"kind":        row.Kind,
			"code":        row.Code,
			"external_id": row.ExternalID,
		}
		if row.CountyID != nil {
			props["county_id"] = row.CountyID.String()
		}

		for _, f := range fc.Features {
			out.Features = append(out.Features, boundaryFeature{
				Type:       "Feature",
				Properties: props,
				Geometry:   f.Geometry,
			})
		}
	}
	return out, nil
}

// canonicalKind resolves a URL kind slug to its stored spelling. Rows are
// written with the canonical slug, so queries and cache keys must use it too
// (a raw "County" would query and cache an empty layer).
func canonicalKind(raw string) (string, error) {
	k, err := boundaryimport.KindByName(raw)
	if err != nil {
		return "", err
	}
	return k.Kind, nil
}

// GetBoundaryByName handles GET /civic/boundaries/{kind}/{name}
func GetBoundaryByName(w http.ResponseWriter, r *http.Request) {
	kind, err := canonicalKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	name := chi.URLParam(r, "name")

	var row Boundary
	err = db.DB.WithContext(r.Context()).
		Where("kind = ? AND LOWER(name) = LOWER(?)", kind, name).
		First(&row).Error
	if err != nil {
		http.Error(w, "Boundary not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(row)
}

// GetCounties handles GET /civic/counties
func GetCounties(w http.ResponseWriter, r *http.Request) {
	var counties []County
	if err := db.DB.WithContext(r.Context()).Order("name").Find(&counties).Error; err != nil {
		http.Error(w, "Failed to fetch counties", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(counties)
}

// SeedCounties handles POST /civic/admin/counties.
// Accepts the canonical county list and upserts by case-insensitive name; the
// importer's link step depends on this table being populated first.
func SeedCounties(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Counties []County `json:"counties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(body.Counties) == 0 {
		http.Error(w, "At least one county is required", http.StatusBadRequest)
		return
	}

	var created, updated int
	for _, c := range body.Counties {
		if c.Name == "" {
			http.Error(w, "County name is required", http.StatusBadRequest)
			return
		}

		var existing County
		err := db.DB.Where("LOWER(name) = LOWER(?)", c.Name).First(&existing).Error
		if err == nil {
			fields := map[string]interface{}{
				"fips_code":  c.FIPSCode,
				"gnis_id":    c.GNISID,
				"seat":       c.Seat,
				"population": c.Population,
			}
			if err := db.DB.Model(&existing).Updates(fields).Error; err != nil {
				http.Error(w, "Failed to update county", http.StatusInternalServerError)
				return
			}
			updated++
			continue
		}

		if err := db.DB.Create(&c).Error; err != nil {
			http.Error(w, "Failed to create county", http.StatusInternalServerError)
			return
		}
		created++
	}

	log.Printf("[civic] seeded counties: %d created, %d updated", created, updated)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"created": created, "updated": updated})
}
