package model

// SearchProvider identifies which search backend produced a snippet.
type SearchProvider string

const (
	ProviderDuckDuckGo SearchProvider = "duckduckgo"
	ProviderSerper     SearchProvider = "serper"
	ProviderDirectSite SearchProvider = "direct-site"
)

// CandidateSnippet is one search-result fragment. Snippets are ephemeral:
// produced by the search orchestrator, consumed by the profile extractor,
// never persisted.
type CandidateSnippet struct {
	Title    string         `json:"title"`
	URL      string         `json:"url"`
	Excerpt  string         `json:"excerpt"`
	Provider SearchProvider `json:"provider"`
}
