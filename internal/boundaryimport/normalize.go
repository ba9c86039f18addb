package boundaryimport

import (
	"log"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Record is one source feature reduced to the canonical field set.
type Record struct {
	Name       string
	Code       string
	ExternalID string
	CountyName string
	Geometry   Geometry
}

// Normalize maps raw feature property bags onto Records using the kind's
// ordered alias lists. Features with no resolvable name or no geometry are
// dropped with a warning; the pipeline tolerates partial data.
func Normalize(kind Kind, features []Feature) (records []Record, dropped int) {
	for i, f := range features {
		name := firstString(f.Properties, kind.NameKeys...)
		if name == "" {
			log.Printf("[import] WARNING: feature %d has no resolvable name, skipping", i)
			dropped++
			continue
		}
		if f.Geometry == nil {
			log.Printf("[import] WARNING: feature %d (%s) has no geometry, skipping", i, name)
			dropped++
			continue
		}

		records = append(records, Record{
			Name:       name,
			Code:       firstString(f.Properties, kind.CodeKeys...),
			ExternalID: firstString(f.Properties, kind.IDKeys...),
			CountyName: firstString(f.Properties, kind.CountyKeys...),
			Geometry:   *f.Geometry,
		})
	}
	return records, dropped
}

// firstString walks keys in priority order and returns the first present,
// non-empty value. GIS property bags mix strings and numbers (FIPS codes and
// GNIS ids often arrive as numbers), so numeric values are stringified.
func firstString(props map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := props[k]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case string:
			if s := strings.TrimSpace(x); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64)
		case int:
			return strconv.Itoa(x)
		case int64:
			return strconv.FormatInt(x, 10)
		}
	}
	return ""
}

// foldName is the grouping/link key: trimmed, Unicode case-folded.
func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
