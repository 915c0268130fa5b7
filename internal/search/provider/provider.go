// Package provider defines the search capability interface and the ordered
// chain the orchestrator iterates. Adding, removing, or reordering
// providers is a construction-time change, not an orchestrator change.
package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/MananiDennis/alumniSystem/internal/model"
)

// ErrUnavailable signals a provider that cannot serve requests at all
// (missing credential, endpoint gone). Distinct from transient failures.
var ErrUnavailable = eris.New("search provider unavailable")

// Provider is a single search backend.
type Provider interface {
	Name() model.SearchProvider
	Search(ctx context.Context, query string) ([]model.CandidateSnippet, error)
}

// Chain is an ordered list of providers, highest priority first.
type Chain struct {
	providers []Provider
}

// NewChain builds a chain from the given providers in priority order.
// Nil entries are skipped so callers can pass conditionally-constructed
// providers directly.
func NewChain(providers ...Provider) *Chain {
	c := &Chain{}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// Providers returns the chain in priority order.
func (c *Chain) Providers() []Provider {
	return c.providers
}

// Len returns the number of providers in the chain.
func (c *Chain) Len() int {
	return len(c.providers)
}
