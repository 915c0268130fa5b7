package extract

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MananiDennis/alumniSystem/internal/cost"
	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/resilience"
	"github.com/MananiDennis/alumniSystem/pkg/anthropic"
)

// Extraction outcome sentinels. The coordinator maps these to rejection
// codes; any other error from Extract is unexpected.
var (
	// ErrNoCandidate means the snippets yielded nothing usable about the
	// requested person.
	ErrNoCandidate = eris.New("extract: no candidate profile")
	// ErrBelowThreshold means a candidate was built but its confidence is
	// too low to keep.
	ErrBelowThreshold = eris.New("extract: candidate below confidence threshold")
)

// Config tunes the extractor.
type Config struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	// ConfidenceFloor rejects model-path candidates scored below it.
	ConfidenceFloor float64
	Retry           resilience.RetryConfig
}

// DefaultConfig mirrors the knobs we run with in production.
func DefaultConfig() Config {
	return Config{
		Model:           "claude-3-5-haiku-latest",
		MaxTokens:       2048,
		Temperature:     0.1,
		ConfidenceFloor: 0.5,
		Retry:           resilience.DefaultRetryConfig(),
	}
}

// Extractor turns search snippets into candidate profiles. The generative
// path is primary; when no client is configured (or the call fails) it
// falls back to the heuristic verifier.
type Extractor struct {
	cfg      Config
	client   anthropic.Client
	fallback *FallbackVerifier
	meter    *cost.Meter
	now      func() time.Time
}

// New builds an Extractor. client may be nil, in which case only the
// heuristic fallback runs.
func New(cfg Config, client anthropic.Client) *Extractor {
	if cfg.ConfidenceFloor == 0 {
		cfg.ConfidenceFloor = DefaultConfig().ConfidenceFloor
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	return &Extractor{
		cfg:      cfg,
		client:   client,
		fallback: NewFallbackVerifier(),
		meter:    cost.NewMeter(nil),
		now:      time.Now,
	}
}

// Usage reports token usage and spend accumulated across model calls.
func (e *Extractor) Usage() cost.Snapshot {
	return e.meter.Snapshot()
}

// Extract builds a candidate profile for name from the snippets. The
// locationHint, when set, biases the fallback verifier. Returns
// ErrNoCandidate or ErrBelowThreshold when nothing acceptable was found.
func (e *Extractor) Extract(ctx context.Context, name string, locationHint string, snippets []model.CandidateSnippet) (*model.AlumniProfile, error) {
	if len(snippets) == 0 {
		return nil, ErrNoCandidate
	}

	if e.client != nil {
		profile, err := e.extractWithModel(ctx, name, snippets)
		if err == nil {
			return profile, nil
		}
		if eris.Is(err, ErrNoCandidate) || eris.Is(err, ErrBelowThreshold) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		zap.L().Warn("extract: model path failed, using heuristic fallback",
			zap.String("name", name), zap.Error(err))
	}

	return e.fallback.Verify(name, locationHint, snippets, e.now())
}

func (e *Extractor) extractWithModel(ctx context.Context, name string, snippets []model.CandidateSnippet) (*model.AlumniProfile, error) {
	prompt := BuildPrompt(name, snippets)
	temp := e.cfg.Temperature

	resp, err := resilience.DoVal(ctx, e.cfg.Retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return e.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:       e.cfg.Model,
			MaxTokens:   e.cfg.MaxTokens,
			System:      systemPrompt,
			Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
			Temperature: &temp,
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "extract: message call failed")
	}
	e.meter.Record(e.cfg.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)

	raw, err := ParseRawExtraction(resp.Text())
	if err != nil {
		// The model broke the JSON contract. That is an anomaly worth a
		// warning, but for the caller it is the same as an empty result.
		zap.L().Warn("extract: response failed to parse",
			zap.String("name", name), zap.Error(err))
		return nil, ErrNoCandidate
	}
	if !raw.HasMeaningfulContent() {
		return nil, ErrNoCandidate
	}

	profile := raw.ToProfile(e.now())
	if err := profile.Validate(); err != nil {
		zap.L().Warn("extract: candidate failed validation",
			zap.String("name", name), zap.Error(err))
		return nil, ErrNoCandidate
	}
	if profile.ConfidenceScore < e.cfg.ConfidenceFloor {
		return nil, eris.Wrapf(ErrBelowThreshold, "confidence %.2f below %.2f",
			profile.ConfidenceScore, e.cfg.ConfidenceFloor)
	}
	return profile, nil
}
