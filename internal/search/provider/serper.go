package provider

import (
	"context"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/pkg/serper"
)

// Serper adapts the API-key-gated Serper client to the Provider interface.
type Serper struct {
	client  serper.Client
	country string
}

// NewSerper wraps a Serper client as a Provider. Returns nil when no API
// key is configured so the chain constructor drops it.
func NewSerper(apiKey, country string) Provider {
	if apiKey == "" {
		return nil
	}
	return &Serper{client: serper.NewClient(apiKey), country: country}
}

// NewSerperWithClient wraps an existing client, for tests.
func NewSerperWithClient(client serper.Client, country string) *Serper {
	return &Serper{client: client, country: country}
}

func (p *Serper) Name() model.SearchProvider {
	return model.ProviderSerper
}

func (p *Serper) Search(ctx context.Context, query string) ([]model.CandidateSnippet, error) {
	resp, err := p.client.Search(ctx, serper.SearchRequest{
		Query:      query,
		Country:    p.country,
		NumResults: 5,
	})
	if err != nil {
		return nil, err
	}

	snippets := make([]model.CandidateSnippet, 0, len(resp.Organic))
	for _, r := range resp.Organic {
		snippets = append(snippets, model.CandidateSnippet{
			Title:    r.Title,
			URL:      r.Link,
			Excerpt:  r.Snippet,
			Provider: model.ProviderSerper,
		})
	}
	return snippets, nil
}
