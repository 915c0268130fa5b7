// Package merge reconciles candidate profiles against stored ones.
//
// The rules are deliberately asymmetric: scalar fields are overwritten
// only when the candidate actually has a value, confidence can only go
// up, and career histories are replaced wholesale because a fresh
// extraction supersedes stale entries rather than interleaving with them.
package merge

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/store"
)

// Plan computes the delta that reconciles candidate onto existing.
// It never mutates either profile.
func Plan(existing, candidate *model.AlumniProfile, now time.Time) store.MergeUpdate {
	up := store.MergeUpdate{LastUpdated: now}

	if candidate.GraduationYear != 0 && candidate.GraduationYear != existing.GraduationYear {
		y := candidate.GraduationYear
		up.GraduationYear = &y
	}
	if candidate.Location != "" && candidate.Location != existing.Location {
		l := candidate.Location
		up.Location = &l
	}
	if candidate.Industry != "" && candidate.Industry != existing.Industry {
		ind := candidate.Industry
		up.Industry = &ind
	}
	if candidate.LinkedInURL != "" && candidate.LinkedInURL != existing.LinkedInURL {
		u := candidate.LinkedInURL
		up.LinkedInURL = &u
	}
	if candidate.ConfidenceScore > existing.ConfidenceScore {
		c := candidate.ConfidenceScore
		up.ConfidenceScore = &c
	}
	if len(candidate.WorkHistory) > 0 {
		up.WorkHistory = candidate.WorkHistory
	}
	if len(candidate.EducationHistory) > 0 {
		up.EducationHistory = candidate.EducationHistory
	}
	up.Provenance = candidate.Provenance

	return up
}

// Engine persists reconciliation outcomes through a Store.
type Engine struct {
	store store.Store
	now   func() time.Time
}

func NewEngine(s store.Store) *Engine {
	return &Engine{store: s, now: time.Now}
}

// Reconcile folds a candidate into the store. Existence is keyed on the
// name the acquisition ran for, not the extracted FullName: extraction
// reports the name as found on the page, so a re-acquisition of a stored
// "Jane Smith" may come back as "Jane Anne Smith" and must still land on
// the same record. The extracted name is tried as a fallback key before
// concluding the profile is new. Returns the persisted profile and
// whether it was newly created.
func (e *Engine) Reconcile(ctx context.Context, name string, candidate *model.AlumniProfile) (*model.AlumniProfile, bool, error) {
	if err := candidate.Validate(); err != nil {
		return nil, false, eris.Wrap(err, "merge: invalid candidate")
	}
	if name == "" {
		name = candidate.FullName
	}

	existing, err := e.findExisting(ctx, name, candidate.FullName)
	switch {
	case err == nil:
	case eris.Is(err, store.ErrNotFound):
		created, err := e.store.Create(ctx, candidate)
		if err != nil {
			return nil, false, eris.Wrap(err, "merge: create failed")
		}
		zap.L().Info("merge: created new profile",
			zap.String("id", created.ID),
			zap.String("name", created.FullName))
		return created, true, nil
	default:
		return nil, false, eris.Wrap(err, "merge: lookup failed")
	}

	up := Plan(existing, candidate, e.now())
	merged, err := e.store.ApplyMerge(ctx, existing.ID, up)
	if err != nil {
		return nil, false, eris.Wrap(err, "merge: apply failed")
	}
	zap.L().Info("merge: updated existing profile",
		zap.String("id", merged.ID),
		zap.String("name", merged.FullName),
		zap.Float64("confidence", merged.ConfidenceScore))
	return merged, false, nil
}

func (e *Engine) findExisting(ctx context.Context, name, extractedName string) (*model.AlumniProfile, error) {
	existing, err := e.store.FindByName(ctx, name)
	if eris.Is(err, store.ErrNotFound) && extractedName != "" && !strings.EqualFold(extractedName, name) {
		return e.store.FindByName(ctx, extractedName)
	}
	return existing, err
}
