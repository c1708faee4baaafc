package research

import (
	"context"
	"errors"
	"strings"
	"testing"

	"postcraft/internal/core"
	"postcraft/internal/llm"
	"postcraft/internal/search"
)

// MockLLMClient implements LLMClient for testing
type MockLLMClient struct {
	response string
	err      error
	prompts  []string
}

func (m *MockLLMClient) GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestSearchWebJSONInsights(t *testing.T) {
	mock := &MockLLMClient{response: `["Market growing fast", "Hashtag #mugs trending", "Audience skews outdoors"]`}
	r := NewResearcher(mock, nil)

	data, err := r.SearchWeb(context.Background(), "insulated mugs", 3)
	if err != nil {
		t.Fatalf("SearchWeb returned error: %v", err)
	}

	if data.Query != "insulated mugs" {
		t.Errorf("query = %q", data.Query)
	}
	if len(data.Insights) != 3 {
		t.Fatalf("expected 3 insights, got %d", len(data.Insights))
	}
	if data.Insights[0] != "Market growing fast" {
		t.Errorf("first insight = %q", data.Insights[0])
	}
	if len(data.Results) == 0 {
		t.Error("expected mock provider results")
	}
	if data.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
	if len(mock.prompts) != 1 || !strings.Contains(mock.prompts[0], `"insulated mugs"`) {
		t.Errorf("prompt did not include the query: %v", mock.prompts)
	}
}

func TestSearchWebDegradesOnLLMFailure(t *testing.T) {
	mock := &MockLLMClient{err: errors.New("model unavailable")}
	r := NewResearcher(mock, nil)

	data, err := r.SearchWeb(context.Background(), "standing desks", 5)
	if err != nil {
		t.Fatalf("SearchWeb must not return an error, got %v", err)
	}

	if len(data.Insights) != 1 || data.Insights[0] != unavailableInsight {
		t.Errorf("expected single unavailable insight, got %v", data.Insights)
	}
	if data.Results == nil || len(data.Results) != 0 {
		t.Errorf("degraded result should carry an empty results slice, got %v", data.Results)
	}
	if data.Query != "standing desks" {
		t.Errorf("degraded result lost the query: %q", data.Query)
	}
}

func TestSearchWebNilLLMClientDegrades(t *testing.T) {
	r := NewResearcher(nil, nil)

	data, err := r.SearchWeb(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("SearchWeb must not return an error, got %v", err)
	}
	if len(data.Insights) != 1 || data.Insights[0] != unavailableInsight {
		t.Errorf("expected degraded insight, got %v", data.Insights)
	}
}

func TestSearchWebHeuristicFallback(t *testing.T) {
	// A reply that parses to zero insights forces heuristic derivation.
	mock := &MockLLMClient{response: "[]"}
	provider := search.NewMockProvider()
	r := NewResearcher(mock, provider)

	data, err := r.SearchWeb(context.Background(), "camping gear", 3)
	if err != nil {
		t.Fatalf("SearchWeb returned error: %v", err)
	}
	if len(data.Insights) == 0 {
		t.Fatal("expected heuristic insights")
	}
	if len(data.Insights) > maxInsights {
		t.Errorf("insights exceed cap: %d", len(data.Insights))
	}

	last := data.Insights[len(data.Insights)-1]
	if !strings.Contains(last, "camping gear") {
		t.Errorf("closing insight should cite the query, got %q", last)
	}
}

func TestSearchWebInsightCap(t *testing.T) {
	mock := &MockLLMClient{response: `["a", "b", "c", "d", "e", "f", "g"]`}
	r := NewResearcher(mock, nil)

	data, err := r.SearchWeb(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("SearchWeb returned error: %v", err)
	}
	if len(data.Insights) != maxInsights {
		t.Errorf("expected %d insights after capping, got %d", maxInsights, len(data.Insights))
	}
}

func TestParseInsightsResponseJSON(t *testing.T) {
	insights := ParseInsightsResponse(`["one", " two ", ""]`)
	if len(insights) != 2 {
		t.Fatalf("expected 2 insights, got %d: %v", len(insights), insights)
	}
	if insights[1] != "two" {
		t.Errorf("insight not trimmed: %q", insights[1])
	}
}

func TestParseInsightsResponseFencedJSON(t *testing.T) {
	raw := "```json\n[\"first\", \"second\"]\n```"
	insights := ParseInsightsResponse(raw)
	if len(insights) != 2 || insights[0] != "first" {
		t.Errorf("fenced JSON not parsed: %v", insights)
	}
}

func TestParseInsightsResponseLineFallback(t *testing.T) {
	raw := `Here are the insights:

1. "Market demand is rising"
2. Competitors are consolidating
3. Engagement peaks midweek,
`
	insights := ParseInsightsResponse(raw)
	if len(insights) != 4 {
		t.Fatalf("expected 4 lines, got %d: %v", len(insights), insights)
	}
	if insights[1] != "Market demand is rising" {
		t.Errorf("numbering and quotes not stripped: %q", insights[1])
	}
	if insights[3] != "Engagement peaks midweek" {
		t.Errorf("trailing comma not stripped: %q", insights[3])
	}
}

func TestParseInsightsResponseFallbackSkipsBracketLines(t *testing.T) {
	raw := "[\nbroken json fragment\n]\nActual insight line"
	insights := ParseInsightsResponse(raw)
	if len(insights) != 2 {
		t.Fatalf("expected bracket lines skipped, got %v", insights)
	}
	if insights[1] != "Actual insight line" {
		t.Errorf("unexpected insight: %q", insights[1])
	}
}

func TestParseInsightsResponseFallbackCap(t *testing.T) {
	raw := "one\ntwo\nthree\nfour\nfive\nsix\nseven"
	insights := ParseInsightsResponse(raw)
	if len(insights) != maxInsights {
		t.Errorf("expected %d insights, got %d", maxInsights, len(insights))
	}
}

func TestDeriveInsightsNoResults(t *testing.T) {
	insights := deriveInsights(nil, "anything")
	if len(insights) != 1 || insights[0] != noDataInsight {
		t.Errorf("expected the no-data insight, got %v", insights)
	}
}

func TestDeriveInsightsFullSet(t *testing.T) {
	results := []core.WebSearchResult{
		{
			Title:   "Excellent insulated mugs versus competition",
			Snippet: "Widely considered better than thermoking in independent reviews.",
		},
		{
			Title:   "Travel mugs compared",
			Snippet: "Great build quality, amazing retention.",
		},
	}

	insights := deriveInsights(results, "Insulated Mugs")

	joined := strings.Join(insights, "\n")
	if !strings.Contains(joined, "Trending topics:") {
		t.Error("missing trending topics bullet")
	}
	if !strings.Contains(joined, "Competitor activity: thermoking") {
		t.Errorf("missing competitor bullet: %v", insights)
	}
	if !strings.Contains(joined, "Market sentiment: positive") {
		t.Errorf("expected positive sentiment: %v", insights)
	}
	if !strings.Contains(joined, "Based on 2 recent sources, market shows strong interest in insulated mugs") {
		t.Errorf("missing closing summary: %v", insights)
	}
	if len(insights) > maxInsights {
		t.Errorf("insights exceed cap: %d", len(insights))
	}
}

func TestExtractTrendingTopics(t *testing.T) {
	results := []core.WebSearchResult{
		{Title: "This will have been about insulated steel mugs today"},
	}

	topics := extractTrendingTopics(results)
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %v", topics)
	}
	// "this", "will", "have", "been" are stop words; "about" is the first
	// qualifying word.
	if topics[0] != "about" || topics[1] != "insulated" || topics[2] != "steel" {
		t.Errorf("unexpected topics: %v", topics)
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	positive := []core.WebSearchResult{{Title: "Great product", Snippet: "love it, best in class"}}
	if s := analyzeSentiment(positive); s != "positive" {
		t.Errorf("expected positive, got %q", s)
	}

	negative := []core.WebSearchResult{{Title: "Terrible product", Snippet: "worst purchase, disappointing"}}
	if s := analyzeSentiment(negative); s != "negative" {
		t.Errorf("expected negative, got %q", s)
	}

	mixed := []core.WebSearchResult{{Title: "Great but awful", Snippet: ""}}
	if s := analyzeSentiment(mixed); s != "neutral" {
		t.Errorf("expected neutral on a tie, got %q", s)
	}

	if s := analyzeSentiment(nil); s != "neutral" {
		t.Errorf("expected neutral with no results, got %q", s)
	}
}
