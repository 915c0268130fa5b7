// Package schedule decides which stored profiles are due for a refresh.
package schedule

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/store"
)

// Tier is an update-urgency bucket. Classification is first-match in
// descending urgency, so a profile lands in exactly one tier.
type Tier string

const (
	// TierImmediate profiles are badly stale or were never confidently
	// resolved in the first place.
	TierImmediate Tier = "immediate"
	// TierShould profiles are aging or only moderately confident.
	TierShould Tier = "should"
	// TierCan profiles could be refreshed but nothing is wrong with them.
	TierCan Tier = "can"
	// TierFresh profiles need nothing.
	TierFresh Tier = "fresh"
)

// Thresholds are the tier cutoffs.
type Thresholds struct {
	ImmediateAge        time.Duration
	ImmediateConfidence float64
	ShouldAge           time.Duration
	ShouldConfidence    float64
	CanAge              time.Duration
}

// DefaultThresholds returns the production cutoffs: 90/30/7 days and
// confidence floors of 0.3 and 0.6.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ImmediateAge:        90 * 24 * time.Hour,
		ImmediateConfidence: 0.3,
		ShouldAge:           30 * 24 * time.Hour,
		ShouldConfidence:    0.6,
		CanAge:              7 * 24 * time.Hour,
	}
}

// Classify assigns a profile to its urgency tier. Age dominates: a
// high-confidence profile that has not been touched in months is still
// immediate, and a fresh low-detail profile is not.
func Classify(p *model.AlumniProfile, now time.Time, th Thresholds) Tier {
	age := now.Sub(p.LastUpdated)
	switch {
	case age > th.ImmediateAge || p.ConfidenceScore < th.ImmediateConfidence:
		return TierImmediate
	case age > th.ShouldAge || p.ConfidenceScore < th.ShouldConfidence:
		return TierShould
	case age > th.CanAge:
		return TierCan
	default:
		return TierFresh
	}
}

// Entry is one profile in a report tier.
type Entry struct {
	Profile *model.AlumniProfile `json:"profile"`
	Age     time.Duration        `json:"age"`
	Tier    Tier                 `json:"tier"`
}

// Report is a point-in-time freshness snapshot of the whole store. Tier
// slices are ordered stalest first.
type Report struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Immediate   []Entry      `json:"immediate"`
	Should      []Entry      `json:"should"`
	Can         []Entry      `json:"can"`
	Counts      map[Tier]int `json:"counts"`
	Total       int          `json:"total"`
}

// Due returns the names in the given tier and every more urgent one,
// stalest first. This is the worklist the update pipeline consumes.
func (r *Report) Due(upTo Tier) []string {
	var entries []Entry
	switch upTo {
	case TierCan:
		entries = append(append(append(entries, r.Immediate...), r.Should...), r.Can...)
	case TierShould:
		entries = append(append(entries, r.Immediate...), r.Should...)
	default:
		entries = append(entries, r.Immediate...)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Profile.FullName)
	}
	return names
}

// Scheduler builds freshness reports from the store.
type Scheduler struct {
	store store.Store
	th    Thresholds
	now   func() time.Time
}

func New(s store.Store, th Thresholds) *Scheduler {
	return &Scheduler{store: s, th: th, now: time.Now}
}

// Report classifies every stored profile.
func (s *Scheduler) Report(ctx context.Context) (*Report, error) {
	profiles, err := s.store.ListAll(ctx, store.Filter{})
	if err != nil {
		return nil, eris.Wrap(err, "schedule: list failed")
	}

	now := s.now()
	rep := &Report{
		GeneratedAt: now,
		Counts:      map[Tier]int{TierImmediate: 0, TierShould: 0, TierCan: 0, TierFresh: 0},
		Total:       len(profiles),
	}
	for _, p := range profiles {
		tier := Classify(p, now, s.th)
		rep.Counts[tier]++
		entry := Entry{Profile: p, Age: now.Sub(p.LastUpdated), Tier: tier}
		switch tier {
		case TierImmediate:
			rep.Immediate = append(rep.Immediate, entry)
		case TierShould:
			rep.Should = append(rep.Should, entry)
		case TierCan:
			rep.Can = append(rep.Can, entry)
		}
	}

	for _, tierList := range [][]Entry{rep.Immediate, rep.Should, rep.Can} {
		sort.SliceStable(tierList, func(i, j int) bool {
			return tierList[i].Age > tierList[j].Age
		})
	}
	return rep, nil
}
