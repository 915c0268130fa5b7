package model

import (
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Industry is one of the closed set of industry categories.
type Industry string

const (
	IndustryTechnology    Industry = "Technology"
	IndustryFinance       Industry = "Finance"
	IndustryHealthcare    Industry = "Healthcare"
	IndustryEducation     Industry = "Education"
	IndustryConsulting    Industry = "Consulting"
	IndustryMining        Industry = "Mining"
	IndustryGovernment    Industry = "Government"
	IndustryNonProfit     Industry = "Non-Profit"
	IndustryRetail        Industry = "Retail"
	IndustryManufacturing Industry = "Manufacturing"
	IndustryOther         Industry = "Other"
)

// Industries lists every category in canonical order.
func Industries() []Industry {
	return []Industry{
		IndustryTechnology, IndustryFinance, IndustryHealthcare,
		IndustryEducation, IndustryConsulting, IndustryMining,
		IndustryGovernment, IndustryNonProfit, IndustryRetail,
		IndustryManufacturing, IndustryOther,
	}
}

// SourceType identifies how a piece of profile data was collected.
type SourceType string

const (
	SourceScrape        SourceType = "scrape"
	SourceSearchDerived SourceType = "search-derived"
	SourceManual        SourceType = "manual"
)

// WorkExperience is a single position in a profile's work history.
// Dates are year-granularity; zero means unknown.
type WorkExperience struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	StartYear int      `json:"start_year,omitempty"`
	EndYear   int      `json:"end_year,omitempty"`
	IsCurrent bool     `json:"is_current"`
	Industry  Industry `json:"industry,omitempty"`
	Location  string   `json:"location,omitempty"`
}

// Validate checks the work experience invariants.
func (w WorkExperience) Validate() error {
	if strings.TrimSpace(w.Title) == "" {
		return eris.New("work experience: title is required")
	}
	if strings.TrimSpace(w.Company) == "" {
		return eris.New("work experience: company is required")
	}
	if w.IsCurrent && w.EndYear != 0 {
		return eris.New("work experience: current position cannot have an end year")
	}
	if w.StartYear != 0 && w.EndYear != 0 && w.StartYear > w.EndYear {
		return eris.Errorf("work experience: start year %d after end year %d", w.StartYear, w.EndYear)
	}
	return nil
}

// EducationRecord is a single entry in a profile's education history.
type EducationRecord struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree,omitempty"`
	FieldOfStudy   string `json:"field_of_study,omitempty"`
	StartYear      int    `json:"start_year,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty"`
}

// Validate checks the education record invariants.
func (e EducationRecord) Validate() error {
	if strings.TrimSpace(e.Institution) == "" {
		return eris.New("education: institution is required")
	}
	if e.StartYear != 0 && e.GraduationYear != 0 && e.StartYear > e.GraduationYear {
		return eris.Errorf("education: start year %d after graduation year %d", e.StartYear, e.GraduationYear)
	}
	if e.GraduationYear != 0 {
		if err := validGraduationYear(e.GraduationYear); err != nil {
			return err
		}
	}
	return nil
}

// DataProvenance records which source and acquisition event produced
// (part of) a profile. A profile accumulates one entry per acquisition.
type DataProvenance struct {
	SourceType  SourceType `json:"source_type"`
	SourceURL   string     `json:"source_url,omitempty"`
	CollectedAt time.Time  `json:"collected_at"`
	Confidence  float64    `json:"confidence"`
}

// Validate checks the provenance invariants.
func (p DataProvenance) Validate() error {
	switch p.SourceType {
	case SourceScrape, SourceSearchDerived, SourceManual:
	default:
		return eris.Errorf("provenance: unknown source type %q", p.SourceType)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return eris.Errorf("provenance: confidence %.3f out of range [0,1]", p.Confidence)
	}
	return nil
}

// AlumniProfile is a reconciled alumni career record. The ID is assigned
// on persistence; candidates produced by the extractor carry an empty ID.
type AlumniProfile struct {
	ID               string            `json:"id,omitempty"`
	FullName         string            `json:"full_name"`
	GraduationYear   int               `json:"graduation_year,omitempty"`
	Location         string            `json:"location,omitempty"`
	Industry         Industry          `json:"industry,omitempty"`
	LinkedInURL      string            `json:"linkedin_url,omitempty"`
	ConfidenceScore  float64           `json:"confidence_score"`
	CurrentPosition  *WorkExperience   `json:"current_position,omitempty"`
	WorkHistory      []WorkExperience  `json:"work_history,omitempty"`
	EducationHistory []EducationRecord `json:"education_history,omitempty"`
	Provenance       []DataProvenance  `json:"provenance,omitempty"`
	LastUpdated      time.Time         `json:"last_updated"`
}

// Validate checks the profile-level invariants. Work and education entries
// are validated individually so a bad entry can be dropped by the caller
// without failing the whole profile.
func (a *AlumniProfile) Validate() error {
	if len(strings.TrimSpace(a.FullName)) < 2 {
		return eris.New("profile: full name is required and must be at least 2 characters")
	}
	if a.ConfidenceScore < 0 || a.ConfidenceScore > 1 {
		return eris.Errorf("profile: confidence %.3f out of range [0,1]", a.ConfidenceScore)
	}
	if a.GraduationYear != 0 {
		if err := validGraduationYear(a.GraduationYear); err != nil {
			return err
		}
	}
	current := 0
	for _, w := range a.WorkHistory {
		if err := w.Validate(); err != nil {
			return err
		}
		if w.IsCurrent {
			current++
		}
	}
	if current > 1 {
		return eris.Errorf("profile: %d positions flagged current, at most one allowed", current)
	}
	return nil
}

// SetWorkHistory replaces the work history wholesale, sorts it most recent
// first and recomputes the cached current-position pointer. Entries after
// the first flagged current are demoted so the single-current invariant
// always holds.
func (a *AlumniProfile) SetWorkHistory(entries []WorkExperience) {
	sorted := make([]WorkExperience, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartYear > sorted[j].StartYear
	})

	seen := false
	for i := range sorted {
		if sorted[i].IsCurrent {
			if seen {
				sorted[i].IsCurrent = false
			}
			seen = true
		}
	}

	a.WorkHistory = sorted
	a.CurrentPosition = nil
	for i := range sorted {
		if sorted[i].IsCurrent {
			a.CurrentPosition = &a.WorkHistory[i]
			break
		}
	}
}

// AddEducation appends an education record and keeps the history ordered
// by graduation year, most recent first.
func (a *AlumniProfile) AddEducation(rec EducationRecord) {
	a.EducationHistory = append(a.EducationHistory, rec)
	sort.SliceStable(a.EducationHistory, func(i, j int) bool {
		return a.EducationHistory[i].GraduationYear > a.EducationHistory[j].GraduationYear
	})
}

func validGraduationYear(year int) error {
	maxYear := time.Now().Year() + 10
	if year < 1950 || year > maxYear {
		return eris.Errorf("graduation year %d outside [1950, %d]", year, maxYear)
	}
	return nil
}
