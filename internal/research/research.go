package research

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"postcraft/internal/core"
	"postcraft/internal/llm"
	"postcraft/internal/logger"
	"postcraft/internal/search"
)

// InsightsPromptTemplate asks the model for market research bullets around a
// topic. The reply is ideally a JSON array of strings; freeform replies are
// handled by the line-based fallback parser.
const InsightsPromptTemplate = `Research the following topic for social media content creation: "%s"

Provide 3-5 key insights about:
1. Current market trends
2. Popular hashtags and keywords
3. Competitor activity
4. Target audience interests
5. Best posting times and strategies

Format as a JSON array of insight strings.`

// maxInsights caps the insight bullets in any research result.
const maxInsights = 5

// unavailableInsight is the single bullet of a degraded research result.
const unavailableInsight = "Web research temporarily unavailable. Content generated without market insights."

// LLMClient defines the model operation the researcher depends on.
type LLMClient interface {
	GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error)
}

// Researcher synthesizes market research for a query: LLM-generated insight
// bullets backed by search results, with heuristic derivation when the model
// reply is unusable. A total failure degrades to a placeholder result; it
// never propagates to the caller.
type Researcher struct {
	llmClient  LLMClient
	provider   search.Provider
	maxResults int
}

// NewResearcher creates a researcher. A nil provider falls back to the mock
// provider, which synthesizes plausible results keyed off the query.
func NewResearcher(llmClient LLMClient, provider search.Provider) *Researcher {
	if provider == nil {
		provider = search.NewMockProvider()
	}
	return &Researcher{
		llmClient:  llmClient,
		provider:   provider,
		maxResults: 5,
	}
}

// SearchWeb runs one market research pass for the query. The returned error
// is always nil by contract: any failure degrades the result instead.
func (r *Researcher) SearchWeb(ctx context.Context, query string, maxResults int) (*core.WebResearchData, error) {
	if maxResults <= 0 {
		maxResults = r.maxResults
	}

	insights, err := r.generateInsights(ctx, query)
	if err != nil {
		logger.Warn("Research insight generation failed, returning degraded result", "query", query, "error", err.Error())
		return &core.WebResearchData{
			Query:       query,
			Results:     []core.WebSearchResult{},
			Insights:    []string{unavailableInsight},
			GeneratedAt: time.Now().UTC(),
		}, nil
	}

	results := r.collectResults(ctx, query, maxResults)

	if len(insights) == 0 {
		insights = deriveInsights(results, query)
	}
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}

	return &core.WebResearchData{
		Query:       query,
		Results:     results,
		Insights:    insights,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// generateInsights runs the LLM primary path and parses the reply.
func (r *Researcher) generateInsights(ctx context.Context, query string) ([]string, error) {
	if r.llmClient == nil {
		return nil, fmt.Errorf("no LLM client configured")
	}

	prompt := fmt.Sprintf(InsightsPromptTemplate, query)

	raw, err := r.llmClient.GenerateText(ctx, prompt, llm.TextGenerationOptions{
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}

	return ParseInsightsResponse(raw), nil
}

// collectResults fetches search hits for the query, soft-failing to an empty
// slice so insight derivation can still report the no-data case.
func (r *Researcher) collectResults(ctx context.Context, query string, maxResults int) []core.WebSearchResult {
	hits, err := r.provider.Search(ctx, query, search.Config{MaxResults: maxResults})
	if err != nil {
		logger.Warn("Search provider failed during research", "query", query, "provider", r.provider.GetName(), "error", err.Error())
		return []core.WebSearchResult{}
	}

	results := make([]core.WebSearchResult, 0, len(hits))
	for _, hit := range hits {
		result := core.WebSearchResult{
			Title:   hit.Title,
			URL:     hit.URL,
			Snippet: hit.Snippet,
		}
		if !hit.PublishedAt.IsZero() {
			result.PublishedDate = hit.PublishedAt.UTC().Format(time.RFC3339)
		}
		results = append(results, result)
	}

	return results
}

var (
	numberingPattern = regexp.MustCompile(`^\d+\.\s*`)
	leadingQuotes    = regexp.MustCompile(`^["\s]+`)
	trailingQuotes   = regexp.MustCompile(`["\s]+$`)
)

// ParseInsightsResponse extracts insight bullets from a model reply. It
// first tries a JSON array of strings; failing that it treats the reply as
// freeform text, stripping fences, numbering and stray quoting, and keeps up
// to 5 non-empty lines.
func ParseInsightsResponse(raw string) []string {
	cleaned := llm.StripCodeFences(raw)

	var parsed []string
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		var insights []string
		for _, insight := range parsed {
			insight = strings.TrimSpace(insight)
			if insight != "" {
				insights = append(insights, insight)
			}
		}
		if len(insights) > maxInsights {
			insights = insights[:maxInsights]
		}
		return insights
	}

	var insights []string
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "[") || strings.Contains(line, "]") {
			continue
		}

		line = numberingPattern.ReplaceAllString(line, "")
		line = leadingQuotes.ReplaceAllString(line, "")
		line = trailingQuotes.ReplaceAllString(line, "")
		line = strings.TrimSuffix(strings.TrimSpace(line), ",")
		line = trailingQuotes.ReplaceAllString(line, "")

		if line == "" {
			continue
		}

		insights = append(insights, line)
		if len(insights) == maxInsights {
			break
		}
	}

	return insights
}
