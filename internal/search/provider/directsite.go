package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"

	"github.com/MananiDennis/alumniSystem/internal/model"
	"github.com/MananiDennis/alumniSystem/internal/resilience"
)

// SiteProbe is a single direct-site lookup target.
type SiteProbe struct {
	Name    string
	URLFunc func(query string) string
}

// DefaultSiteProbes returns the standard professional-directory probes
// used as the last-resort provider.
func DefaultSiteProbes() []SiteProbe {
	return []SiteProbe{
		{
			Name: "linkedin_dir",
			URLFunc: func(q string) string {
				return fmt.Sprintf("https://www.linkedin.com/pub/dir?keywords=%s", url.QueryEscape(q))
			},
		},
		{
			Name: "au_business_dir",
			URLFunc: func(q string) string {
				return fmt.Sprintf("https://www.yellowpages.com.au/search/listings?clue=%s", url.QueryEscape(q))
			},
		},
	}
}

// DirectSite probes professional-directory pages directly and synthesizes
// snippets from page titles. It never rate-limits its own retries; failures
// simply yield fewer snippets.
type DirectSite struct {
	probes []SiteProbe
	http   *http.Client
}

// NewDirectSite builds the direct-site probe provider.
func NewDirectSite(probes []SiteProbe, opts ...DirectSiteOption) *DirectSite {
	p := &DirectSite{
		probes: probes,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// DirectSiteOption configures the provider.
type DirectSiteOption func(*DirectSite)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) DirectSiteOption {
	return func(p *DirectSite) {
		p.http = hc
	}
}

func (p *DirectSite) Name() model.SearchProvider {
	return model.ProviderDirectSite
}

func (p *DirectSite) Search(ctx context.Context, query string) ([]model.CandidateSnippet, error) {
	var snippets []model.CandidateSnippet
	var lastErr error

	for _, probe := range p.probes {
		select {
		case <-ctx.Done():
			return snippets, ctx.Err()
		default:
		}

		target := probe.URLFunc(query)
		title, err := p.fetchTitle(ctx, target)
		if err != nil {
			lastErr = err
			continue
		}
		if title == "" || !relevantTitle(title, query) {
			continue
		}
		snippets = append(snippets, model.CandidateSnippet{
			Title:    title,
			URL:      target,
			Excerpt:  fmt.Sprintf("Directory listing match on %s", probe.Name),
			Provider: model.ProviderDirectSite,
		})
	}

	if len(snippets) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return snippets, nil
}

func (p *DirectSite) fetchTitle(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", eris.Wrap(err, "directsite: create request")
	}
	req.Header.Set("Accept", "text/html")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "directsite: fetch")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", resilience.NewRateLimited(eris.New("directsite: rate limited"))
	case resp.StatusCode != http.StatusOK:
		return "", eris.Errorf("directsite: status %d for %s", resp.StatusCode, target)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "directsite: parse page")
	}
	return pageTitle(doc), nil
}

// relevantTitle filters out generic directory landing pages: at least one
// query token must appear in the title.
func relevantTitle(title, query string) bool {
	t := strings.ToLower(title)
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		tok = strings.Trim(tok, `"`)
		if len(tok) > 2 && strings.Contains(t, tok) {
			return true
		}
	}
	return false
}

func pageTitle(doc *html.Node) string {
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}
