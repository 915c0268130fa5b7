package search

import (
	"fmt"
	"strings"
)

// maxQueries bounds the variant list per name.
const maxQueries = 6

// Request describes one person to search for.
type Request struct {
	Name        string
	Institution string // e.g. "Edith Cowan University"
	Region      string // e.g. "Perth Australia"
	Context     string // optional caller-supplied disambiguation
}

// BuildQueries generates the bounded, deduplicated, ordered query variant
// list for a request. Broad name-only queries come first; narrower
// site-restricted and context variants follow.
func BuildQueries(req Request) []string {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil
	}
	quoted := fmt.Sprintf("%q", name)

	candidates := []string{
		quoted,
		quoted + " linkedin",
		"site:linkedin.com/in " + quoted,
	}
	if inst := strings.TrimSpace(req.Institution); inst != "" {
		candidates = append(candidates, fmt.Sprintf("%s %q", quoted, inst))
	}
	if region := strings.TrimSpace(req.Region); region != "" {
		candidates = append(candidates, quoted+" "+region)
	}
	if c := strings.TrimSpace(req.Context); c != "" {
		candidates = append(candidates, quoted+" "+c)
	} else {
		candidates = append(candidates, quoted+" professional")
	}

	seen := make(map[string]bool, len(candidates))
	queries := make([]string, 0, len(candidates))
	for _, q := range candidates {
		if seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
		if len(queries) == maxQueries {
			break
		}
	}
	return queries
}
