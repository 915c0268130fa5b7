package provider

import (
	"context"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/pkg/duckduckgo"
)

// DuckDuckGo adapts the free HTML search client to the Provider interface.
type DuckDuckGo struct {
	client duckduckgo.Client
}

// NewDuckDuckGo wraps a DuckDuckGo client as a Provider.
func NewDuckDuckGo(client duckduckgo.Client) *DuckDuckGo {
	return &DuckDuckGo{client: client}
}

func (p *DuckDuckGo) Name() model.SearchProvider {
	return model.ProviderDuckDuckGo
}

func (p *DuckDuckGo) Search(ctx context.Context, query string) ([]model.CandidateSnippet, error) {
	results, err := p.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	snippets := make([]model.CandidateSnippet, 0, len(results))
	for _, r := range results {
		snippets = append(snippets, model.CandidateSnippet{
			Title:    r.Title,
			URL:      r.URL,
			Excerpt:  r.Snippet,
			Provider: model.ProviderDuckDuckGo,
		})
	}
	return snippets, nil
}
