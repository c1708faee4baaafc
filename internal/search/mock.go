package search

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MockProvider implements Provider without reaching the network. It serves
// two purposes: deterministic results in tests, and plausible placeholder
// results when no real search backend is configured.
type MockProvider struct {
	name    string
	results []Result // When set, returned verbatim instead of synthesized ones
}

// NewMockProvider creates a new mock search provider
func NewMockProvider() *MockProvider {
	return &MockProvider{name: "Mock"}
}

// GetName returns the name of this provider
func (m *MockProvider) GetName() string {
	return m.name
}

// Search synthesizes results keyed off the query string.
func (m *MockProvider) Search(ctx context.Context, query string, config Config) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := m.results
	if results == nil {
		results = synthesizeResults(query)
	}

	maxResults := config.MaxResults
	if maxResults <= 0 || maxResults > len(results) {
		maxResults = len(results)
	}

	out := make([]Result, maxResults)
	copy(out, results[:maxResults])
	return out, nil
}

// SetResults allows customization of mock results for testing
func (m *MockProvider) SetResults(results []Result) {
	m.results = results
}

// SetName allows customization of provider name for testing
func (m *MockProvider) SetName(name string) {
	m.name = name
}

// synthesizeResults builds three plausible-looking hits for a query. The
// shapes mirror what a trade-press search would return so the downstream
// insight heuristics have material to work with.
func synthesizeResults(query string) []Result {
	firstWord := query
	if fields := strings.Fields(query); len(fields) > 0 {
		firstWord = fields[0]
	}

	now := time.Now()

	return []Result{
		{
			URL:         "https://example.com/trends",
			Title:       fmt.Sprintf("Latest Trends in %s Industry", firstWord),
			Snippet:     fmt.Sprintf("The %s market is experiencing significant growth with 15%% year-over-year increase.", query),
			Domain:      "example.com",
			PublishedAt: now,
			Source:      "Mock",
			Rank:        1,
		},
		{
			URL:         "https://example.com/transformation",
			Title:       fmt.Sprintf("How %s is Transforming Business", query),
			Snippet:     fmt.Sprintf("Companies are leveraging %s to improve efficiency and customer engagement.", query),
			Domain:      "example.com",
			PublishedAt: now.Add(-24 * time.Hour),
			Source:      "Mock",
			Rank:        2,
		},
		{
			URL:         "https://example.com/best-practices",
			Title:       fmt.Sprintf("Best Practices for %s Implementation", query),
			Snippet:     fmt.Sprintf("Industry experts share insights on successful %s strategies.", query),
			Domain:      "example.com",
			PublishedAt: now.Add(-48 * time.Hour),
			Source:      "Mock",
			Rank:        3,
		},
	}
}
