package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/MananiDennis/alumniSystem/internal/model"
)

// ErrNotFound is returned by lookups that match no profile.
var ErrNotFound = eris.New("store: profile not found")

// MergeUpdate is the transactional delta applied to an existing profile.
// Nil pointer fields are left untouched; a non-nil WorkHistory or
// EducationHistory replaces the stored history wholesale; Provenance
// entries are appended.
type MergeUpdate struct {
	GraduationYear   *int
	Location         *string
	Industry         *model.Industry
	LinkedInURL      *string
	ConfidenceScore  *float64
	WorkHistory      []model.WorkExperience
	EducationHistory []model.EducationRecord
	Provenance       []model.DataProvenance
	LastUpdated      time.Time
}

// Filter narrows ListAll. Zero values mean no constraint.
type Filter struct {
	// Name and Location match case-insensitively on any substring.
	Name           string         `json:"name,omitempty"`
	Location       string         `json:"location,omitempty"`
	Industry       model.Industry `json:"industry,omitempty"`
	GraduationYear int            `json:"graduation_year,omitempty"`
	MinConfidence  float64        `json:"min_confidence,omitempty"`
	Limit          int            `json:"limit,omitempty"`
	Offset         int            `json:"offset,omitempty"`
}

// Store defines the persistence interface for alumni profiles.
// Implementations must apply a MergeUpdate atomically: either every field
// change lands or none do.
type Store interface {
	// Create inserts a new profile and returns it with its assigned ID.
	Create(ctx context.Context, p *model.AlumniProfile) (*model.AlumniProfile, error)
	// Get returns a profile by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.AlumniProfile, error)
	// FindByName returns the profile whose full name matches
	// case-insensitively, or ErrNotFound.
	FindByName(ctx context.Context, fullName string) (*model.AlumniProfile, error)
	// ApplyMerge applies the delta to the profile with the given ID in a
	// single transaction and returns the updated profile.
	ApplyMerge(ctx context.Context, id string, up MergeUpdate) (*model.AlumniProfile, error)
	// ListAll returns profiles matching the filter, most recently
	// updated first.
	ListAll(ctx context.Context, f Filter) ([]*model.AlumniProfile, error)
	// Delete removes a profile by ID, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// ReplaceWorkHistory swaps a profile's work history wholesale, as its own
// transactional merge.
func ReplaceWorkHistory(ctx context.Context, s Store, id string, wh []model.WorkExperience, now time.Time) error {
	_, err := s.ApplyMerge(ctx, id, MergeUpdate{
		WorkHistory: wh,
		LastUpdated: now,
	})
	return err
}

// applyUpdate folds a MergeUpdate into a profile in place. Both SQL
// backends read the row inside a transaction, apply the delta here and
// write the whole row back, so the merge semantics live in one place.
func applyUpdate(p *model.AlumniProfile, up MergeUpdate) {
	if up.GraduationYear != nil {
		p.GraduationYear = *up.GraduationYear
	}
	if up.Location != nil {
		p.Location = *up.Location
	}
	if up.Industry != nil {
		p.Industry = *up.Industry
	}
	if up.LinkedInURL != nil {
		p.LinkedInURL = *up.LinkedInURL
	}
	if up.ConfidenceScore != nil {
		p.ConfidenceScore = *up.ConfidenceScore
	}
	if up.WorkHistory != nil {
		p.SetWorkHistory(up.WorkHistory)
	}
	if up.EducationHistory != nil {
		p.EducationHistory = nil
		for _, rec := range up.EducationHistory {
			p.AddEducation(rec)
		}
	}
	p.Provenance = append(p.Provenance, up.Provenance...)
	if !up.LastUpdated.IsZero() {
		p.LastUpdated = up.LastUpdated
	}
}
