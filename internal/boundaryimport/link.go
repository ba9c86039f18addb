package boundaryimport

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fetchCountyIndex loads the canonical county table and keys it by folded
// name for case-insensitive matching.
func fetchCountyIndex(db *gorm.DB) (map[string]uuid.UUID, error) {
	var counties []County
	if err := db.Find(&counties).Error; err != nil {
		return nil, fmt.Errorf("fetch counties: %w", err)
	}

	idx := make(map[string]uuid.UUID, len(counties))
	for _, c := range counties {
		idx[foldName(c.Name)] = c.ID
	}
	return idx, nil
}

// linkGroups resolves each group's county link against the index and returns
// how many groups matched. A nil index (lookup failed or intentionally
// skipped) leaves every group unlinked.
func linkGroups(groups []Group, idx map[string]uuid.UUID) (linked []*uuid.UUID, matched int) {
	linked = make([]*uuid.UUID, len(groups))
	if idx == nil {
		return linked, 0
	}

	for i, g := range groups {
		if g.CountyName == "" {
			continue
		}
		if id, ok := idx[foldName(g.CountyName)]; ok {
			idCopy := id
			linked[i] = &idCopy
			matched++
		}
	}
	return linked, matched
}
