package extract

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/taxonomy"
)

// RawExtraction is the loosely-typed shape returned by the generative
// extraction call. Fields stay permissive (any) at this boundary; the
// conversion to model.AlumniProfile validates and coerces, dropping bad
// sub-entries individually instead of failing the whole profile.
type RawExtraction struct {
	FullName         string         `json:"full_name"`
	GraduationYear   any            `json:"graduation_year"`
	Location         string         `json:"location"`
	Industry         string         `json:"industry"`
	LinkedInURL      string         `json:"linkedin_url"`
	ConfidenceScore  any            `json:"confidence_score"`
	WorkHistory      []RawWork      `json:"work_history"`
	EducationHistory []RawEducation `json:"education_history"`
	DataSourceURL    string         `json:"data_source_url"`
}

// RawWork is one unvalidated work entry.
type RawWork struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	StartYear any    `json:"start_year"`
	EndYear   any    `json:"end_year"`
	IsCurrent bool   `json:"is_current"`
	Industry  string `json:"industry"`
	Location  string `json:"location"`
}

// RawEducation is one unvalidated education entry.
type RawEducation struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	FieldOfStudy   string `json:"field_of_study"`
	GraduationYear any    `json:"graduation_year"`
	StartYear      any    `json:"start_year"`
}

// ParseRawExtraction decodes the model response body, tolerating markdown
// code fences around the JSON object.
func ParseRawExtraction(text string) (*RawExtraction, error) {
	cleaned := stripFences(text)
	var raw RawExtraction
	dec := json.NewDecoder(strings.NewReader(cleaned))
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

// HasMeaningfulContent reports whether any identifying field is populated.
// An all-empty object is treated the same as no response.
func (r *RawExtraction) HasMeaningfulContent() bool {
	return strings.TrimSpace(r.FullName) != "" ||
		len(r.WorkHistory) > 0 ||
		len(r.EducationHistory) > 0 ||
		strings.TrimSpace(r.LinkedInURL) != "" ||
		strings.TrimSpace(r.Location) != "" ||
		strings.TrimSpace(r.Industry) != ""
}

// ToProfile converts a validated raw extraction into a candidate profile.
// Sub-entries that fail validation are dropped with a log line; the
// returned candidate always satisfies model invariants.
func (r *RawExtraction) ToProfile(collectedAt time.Time) *model.AlumniProfile {
	confidence := NormalizeConfidence(r.ConfidenceScore)

	p := &model.AlumniProfile{
		FullName:        strings.TrimSpace(r.FullName),
		Location:        strings.TrimSpace(r.Location),
		Industry:        taxonomy.Normalize(r.Industry),
		LinkedInURL:     strings.TrimSpace(r.LinkedInURL),
		ConfidenceScore: confidence,
		LastUpdated:     collectedAt,
	}

	if year, ok := toYear(r.GraduationYear); ok {
		p.GraduationYear = year
	}

	var work []model.WorkExperience
	for _, rw := range r.WorkHistory {
		w := model.WorkExperience{
			Title:     strings.TrimSpace(rw.Title),
			Company:   strings.TrimSpace(rw.Company),
			IsCurrent: rw.IsCurrent,
			Industry:  taxonomy.Normalize(rw.Industry),
			Location:  strings.TrimSpace(rw.Location),
		}
		if y, ok := toYear(rw.StartYear); ok {
			w.StartYear = y
		}
		if y, ok := toYear(rw.EndYear); ok && !w.IsCurrent {
			w.EndYear = y
		}
		if w.Company == "" {
			w.Company = "Unknown"
		}
		if err := w.Validate(); err != nil {
			zap.L().Debug("extract: dropping invalid work entry", zap.Error(err))
			continue
		}
		work = append(work, w)
	}
	p.SetWorkHistory(work)

	for _, re := range r.EducationHistory {
		e := model.EducationRecord{
			Institution:  strings.TrimSpace(re.Institution),
			Degree:       strings.TrimSpace(re.Degree),
			FieldOfStudy: strings.TrimSpace(re.FieldOfStudy),
		}
		if y, ok := toYear(re.GraduationYear); ok {
			e.GraduationYear = y
		}
		if y, ok := toYear(re.StartYear); ok {
			e.StartYear = y
		}
		if err := e.Validate(); err != nil {
			zap.L().Debug("extract: dropping invalid education entry", zap.Error(err))
			continue
		}
		p.AddEducation(e)
	}

	// Prefer the current position's industry when the profile-level one
	// is missing.
	if p.Industry == "" && p.CurrentPosition != nil {
		p.Industry = p.CurrentPosition.Industry
	}

	if src := strings.TrimSpace(r.DataSourceURL); src != "" {
		p.Provenance = append(p.Provenance, model.DataProvenance{
			SourceType:  model.SourceSearchDerived,
			SourceURL:   src,
			CollectedAt: collectedAt,
			Confidence:  confidence,
		})
	}

	return p
}

// NormalizeConfidence coerces a confidence value possibly on a 0-100 scale
// into [0,1]. Values in (1,100] divide by 100; values already in [0,1]
// pass through; anything unparseable is 0.
func NormalizeConfidence(v any) float64 {
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	if f > 1 && f <= 100 {
		return f / 100
	}
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 0
	}
	return f
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toYear casts a loosely-typed year to int, rejecting non-numeric values
// and zero so bad years get dropped rather than propagated.
func toYear(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	y := int(f)
	if y <= 0 {
		return 0, false
	}
	return y, true
}

func stripFences(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```json") {
		t = t[len("```json"):]
	} else if strings.HasPrefix(t, "```") {
		t = t[3:]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
