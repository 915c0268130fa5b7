package extract

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/similarity"
)

// Fallback acceptance knobs. A candidate is kept when the weighted score
// clears acceptFloor and the name similarity alone clears nameFloor.
const (
	nameWeight  = 0.7
	placeWeight = 0.3
	acceptFloor = 0.6
	nameFloor   = 0.5
)

// FallbackVerifier builds a low-detail candidate from snippets alone when
// the generative path is unavailable. It is intentionally conservative:
// only name and location evidence count, and the weighted score is also
// the candidate's confidence.
type FallbackVerifier struct{}

func NewFallbackVerifier() *FallbackVerifier {
	return &FallbackVerifier{}
}

// Verify scores each snippet against the requested name and location hint
// and promotes the best match to a candidate profile.
func (f *FallbackVerifier) Verify(name, locationHint string, snippets []model.CandidateSnippet, collectedAt time.Time) (*model.AlumniProfile, error) {
	if len(snippets) == 0 {
		return nil, ErrNoCandidate
	}

	var (
		best      model.CandidateSnippet
		bestScore float64
		bestName  float64
		bestPlace bool
	)
	for _, s := range snippets {
		nameSim := similarity.ContainmentScore(name, s.Title)
		text := s.Title + " " + s.Excerpt
		placeHit := similarity.LocationMatch(text, locationHint)
		score := nameWeight * nameSim
		if placeHit {
			score += placeWeight
		}
		if score > bestScore {
			best, bestScore, bestName, bestPlace = s, score, nameSim, placeHit
		}
	}

	if bestScore <= acceptFloor || bestName <= nameFloor {
		zap.L().Debug("extract: fallback rejected best snippet",
			zap.String("name", name),
			zap.Float64("score", bestScore),
			zap.Float64("name_similarity", bestName))
		return nil, eris.Wrapf(ErrBelowThreshold, "fallback score %.2f", bestScore)
	}

	p := &model.AlumniProfile{
		FullName:        name,
		ConfidenceScore: bestScore,
		LastUpdated:     collectedAt,
		Provenance: []model.DataProvenance{{
			SourceType:  model.SourceSearchDerived,
			SourceURL:   best.URL,
			CollectedAt: collectedAt,
			Confidence:  bestScore,
		}},
	}
	if bestPlace && locationHint != "" {
		p.Location = locationHint
	}
	if strings.Contains(best.URL, "linkedin.com") {
		p.LinkedInURL = best.URL
	}
	return p, nil
}
