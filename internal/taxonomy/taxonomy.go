// Package taxonomy maps free-text industry strings to the closed category
// set via priority-ordered keyword matching.
package taxonomy

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MananiDennis/alumniSystem/internal/model"
)

//go:embed industries.yaml
var industriesYAML []byte

// keywordEntry preserves table ordering so earlier categories win ties.
type keywordEntry struct {
	keyword  string
	category model.Industry
}

var (
	exact   map[string]model.Industry
	ordered []keywordEntry
)

func init() {
	var table map[string][]string
	if err := yaml.Unmarshal(industriesYAML, &table); err != nil {
		panic("taxonomy: bad embedded industries.yaml: " + err.Error())
	}

	exact = make(map[string]model.Industry)
	for _, cat := range model.Industries() {
		keywords := table[string(cat)]
		// Canonical names always round-trip, with or without a table entry.
		exact[strings.ToLower(string(cat))] = cat
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if _, dup := exact[kw]; !dup {
				exact[kw] = cat
			}
			ordered = append(ordered, keywordEntry{keyword: kw, category: cat})
		}
	}
}

// Normalize maps a free-text industry string to a category. Every non-empty
// input maps to exactly one category, defaulting to Other; empty input maps
// to the empty Industry.
func Normalize(raw string) model.Industry {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	if cat, ok := exact[s]; ok {
		return cat
	}

	// Substring containment in either direction, table order wins.
	for _, e := range ordered {
		if strings.Contains(s, e.keyword) || strings.Contains(e.keyword, s) {
			return e.category
		}
	}

	return model.IndustryOther
}
