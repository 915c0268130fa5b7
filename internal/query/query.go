// Package query answers free-text questions about the stored population
// by converting them into structured filters.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/resilience"
	"github.com/MananiDennis/alumniSystem/internal/store"
	"github.com/MananiDennis/alumniSystem/internal/taxonomy"
	"github.com/MananiDennis/alumniSystem/pkg/anthropic"
)

// ErrUnavailable means no model client is configured, so free-text
// questions cannot be translated.
var ErrUnavailable = eris.New("query: no model client configured")

const systemPrompt = `You translate questions about university alumni into search filters. Respond with a single JSON object and nothing else.`

const promptTemplate = `Convert this question about alumni into search filter parameters.

Question: %q

Available parameters:
- name: string (partial name match)
- location: string (partial location match)
- industry: string (Technology, Finance, Healthcare, Education, Consulting, Mining, Government, Non-Profit, Retail, Manufacturing, Other)
- graduation_year: integer (exact year)
- min_confidence: number between 0 and 1

Return only valid JSON with the parameters the question mentions. If no criteria are mentioned, return {}.

Examples:
"mining sector graduates" -> {"industry": "Mining"}
"graduates from 2018" -> {"graduation_year": 2018}
"John Smith" -> {"name": "John Smith"}
"Perth alumni in technology" -> {"location": "Perth", "industry": "Technology"}`

// Config tunes the translation call.
type Config struct {
	Model     string
	MaxTokens int64
	Retry     resilience.RetryConfig
}

// Result carries the translated filter and the profiles it matched.
type Result struct {
	Question string                 `json:"question"`
	Filter   store.Filter           `json:"filter"`
	Profiles []*model.AlumniProfile `json:"profiles"`
	Count    int                    `json:"count"`
}

// Service answers natural-language questions against the store.
type Service struct {
	cfg    Config
	client anthropic.Client
	store  store.Store
}

// New builds a Service. client may be nil, in which case Ask returns
// ErrUnavailable.
func New(cfg Config, client anthropic.Client, s store.Store) *Service {
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-haiku-latest"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}
	return &Service{cfg: cfg, client: client, store: s}
}

// Ask translates the question into a Filter and runs it. A question the
// model cannot map to any parameter lists the whole population.
func (s *Service) Ask(ctx context.Context, question string) (*Result, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, eris.New("query: empty question")
	}

	filter, err := s.translate(ctx, question)
	if err != nil {
		return nil, err
	}

	profiles, err := s.store.ListAll(ctx, filter)
	if err != nil {
		return nil, eris.Wrap(err, "query: list failed")
	}
	if profiles == nil {
		profiles = []*model.AlumniProfile{}
	}
	return &Result{
		Question: question,
		Filter:   filter,
		Profiles: profiles,
		Count:    len(profiles),
	}, nil
}

func (s *Service) translate(ctx context.Context, question string) (store.Filter, error) {
	temp := 0.1
	resp, err := resilience.DoVal(ctx, s.cfg.Retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return s.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     s.cfg.Model,
			MaxTokens: s.cfg.MaxTokens,
			System:    systemPrompt,
			Messages: []anthropic.Message{
				{Role: "user", Content: fmt.Sprintf(promptTemplate, question)},
			},
			Temperature: &temp,
		})
	})
	if err != nil {
		return store.Filter{}, eris.Wrap(err, "query: translate call failed")
	}

	var raw struct {
		Name           string  `json:"name"`
		Location       string  `json:"location"`
		Industry       string  `json:"industry"`
		GraduationYear int     `json:"graduation_year"`
		MinConfidence  float64 `json:"min_confidence"`
	}
	text := stripFences(resp.Text())
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		// Contract drift; fall back to an unfiltered listing like an
		// empty filter object would produce.
		zap.L().Warn("query: translation failed to parse",
			zap.String("question", question), zap.Error(err))
		return store.Filter{}, nil
	}

	f := store.Filter{
		Name:           strings.TrimSpace(raw.Name),
		Location:       strings.TrimSpace(raw.Location),
		GraduationYear: raw.GraduationYear,
		MinConfidence:  raw.MinConfidence,
	}
	if raw.Industry != "" {
		f.Industry = taxonomy.Normalize(raw.Industry)
	}
	return f, nil
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
