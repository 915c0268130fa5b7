package serper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MananiDennis/alumniSystem/internal/resilience"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "test-key" {
			t.Errorf("missing api key header")
		}
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != `"Jane Smith" linkedin` {
			t.Errorf("query = %q", req.Query)
		}
		json.NewEncoder(w).Encode(SearchResponse{
			Organic: []OrganicResult{
				{Title: "Jane Smith | LinkedIn", Link: "https://linkedin.com/in/janesmith", Snippet: "Engineer at Acme", Position: 1},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := c.Search(context.Background(), SearchRequest{Query: `"Jane Smith" linkedin`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Organic) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Organic))
	}
	if resp.Organic[0].Link != "https://linkedin.com/in/janesmith" {
		t.Errorf("link = %q", resp.Organic[0].Link)
	}
}

func TestSearchRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), SearchRequest{Query: "anything"})
	if !resilience.IsRateLimited(err) {
		t.Errorf("expected rate-limited error, got %v", err)
	}
}

func TestSearchAuthFailureNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), SearchRequest{Query: "anything"})
	if err == nil {
		t.Fatal("expected error")
	}
	if resilience.IsTransient(err) {
		t.Error("403 must not be transient")
	}
}
