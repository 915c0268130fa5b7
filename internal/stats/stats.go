// Package stats summarizes the stored profile population.
package stats

import (
	"context"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/store"
)

// CompanyCount is one entry in the top-companies ranking.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// Summary is a population-level snapshot of the store.
type Summary struct {
	TotalProfiles     int                    `json:"total_profiles"`
	AverageConfidence float64                `json:"average_confidence"`
	WithLinkedIn      int                    `json:"with_linkedin"`
	WithCurrentRole   int                    `json:"with_current_role"`
	ByIndustry        map[model.Industry]int `json:"by_industry"`
	ByGraduationYear  map[int]int            `json:"by_graduation_year"`
	ConfidenceBands   map[string]int         `json:"confidence_bands"`
	TopCompanies      []CompanyCount         `json:"top_companies"`
}

// Service computes summaries from the store.
type Service struct {
	store store.Store
	// topN bounds the company ranking.
	topN int
}

func New(s store.Store) *Service {
	return &Service{store: s, topN: 10}
}

// Summarize walks every stored profile and aggregates population stats.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	profiles, err := s.store.ListAll(ctx, store.Filter{})
	if err != nil {
		return nil, eris.Wrap(err, "stats: list failed")
	}

	sum := &Summary{
		TotalProfiles:    len(profiles),
		ByIndustry:       make(map[model.Industry]int),
		ByGraduationYear: make(map[int]int),
		ConfidenceBands:  map[string]int{"low": 0, "medium": 0, "high": 0},
	}

	companies := make(map[string]int)
	var confidenceTotal float64
	for _, p := range profiles {
		confidenceTotal += p.ConfidenceScore
		sum.ConfidenceBands[confidenceBand(p.ConfidenceScore)]++

		if p.LinkedInURL != "" {
			sum.WithLinkedIn++
		}
		if p.CurrentPosition != nil {
			sum.WithCurrentRole++
			if c := strings.TrimSpace(p.CurrentPosition.Company); c != "" && c != "Unknown" {
				companies[c]++
			}
		}
		if p.Industry != "" {
			sum.ByIndustry[p.Industry]++
		}
		if p.GraduationYear != 0 {
			sum.ByGraduationYear[p.GraduationYear]++
		}
	}
	if len(profiles) > 0 {
		sum.AverageConfidence = confidenceTotal / float64(len(profiles))
	}

	sum.TopCompanies = rankCompanies(companies, s.topN)
	return sum, nil
}

// confidenceBand buckets a score: low < 0.5, high >= 0.8.
func confidenceBand(score float64) string {
	switch {
	case score < 0.5:
		return "low"
	case score < 0.8:
		return "medium"
	default:
		return "high"
	}
}

func rankCompanies(counts map[string]int, n int) []CompanyCount {
	ranked := make([]CompanyCount, 0, len(counts))
	for company, count := range counts {
		ranked = append(ranked, CompanyCount{Company: company, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Company < ranked[j].Company
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
