package boundaryimport

// Group is one logical boundary: every source feature whose folded name
// matched, with geometries kept in encounter order.
type Group struct {
	Name       string // first raw spelling seen
	Code       string
	ExternalID string
	CountyName string
	Geometries []Geometry
}

// GroupRecords merges records sharing a case-folded trimmed name. The first
// non-empty code, external id, and county name win; later values never
// overwrite them.
func GroupRecords(records []Record) []Group {
	byKey := make(map[string]int)
	var groups []Group

	for _, rec := range records {
		key := foldName(rec.Name)
		idx, ok := byKey[key]
		if !ok {
			byKey[key] = len(groups)
			groups = append(groups, Group{
				Name:       rec.Name,
				Code:       rec.Code,
				ExternalID: rec.ExternalID,
				CountyName: rec.CountyName,
				Geometries: []Geometry{rec.Geometry},
			})
			continue
		}

		g := &groups[idx]
		g.Geometries = append(g.Geometries, rec.Geometry)
		if g.Code == "" {
			g.Code = rec.Code
		}
		if g.ExternalID == "" {
			g.ExternalID = rec.ExternalID
		}
		if g.CountyName == "" {
			g.CountyName = rec.CountyName
		}
	}

	return groups
}
