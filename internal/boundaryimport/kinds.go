package boundaryimport

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed kinds.yaml
var kindsYAML []byte

// Kind describes one importable boundary layer: which source property
// spellings to try for each canonical field, and the provenance strings
// stamped onto every row.
type Kind struct {
	Kind        string   `yaml:"kind"`
	Publisher   string   `yaml:"publisher"`
	Description string   `yaml:"description"`
	NameKeys    []string `yaml:"name_keys"`
	CodeKeys    []string `yaml:"code_keys"`
	IDKeys      []string `yaml:"id_keys"`
	CountyKeys  []string `yaml:"county_keys"`
}

type kindFile struct {
	Kinds []Kind `yaml:"kinds"`
}

var kinds = mustLoadKinds()

func mustLoadKinds() map[string]Kind {
	var kf kindFile
	if err := yaml.Unmarshal(kindsYAML, &kf); err != nil {
		panic(fmt.Sprintf("boundaryimport: bad kinds.yaml: %v", err))
	}
	m := make(map[string]Kind, len(kf.Kinds))
	for _, k := range kf.Kinds {
		m[k.Kind] = k
	}
	return m
}

// KindByName resolves a kind slug like "county" or "ctu".
func KindByName(name string) (Kind, error) {
	k, ok := kinds[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Kind{}, fmt.Errorf("unknown boundary kind %q (known: %s)", name, strings.Join(KindNames(), ", "))
	}
	return k, nil
}

// KindNames returns the known kind slugs, sorted.
func KindNames() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
