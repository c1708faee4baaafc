package research

import (
	"fmt"
	"regexp"
	"strings"

	"postcraft/internal/core"
)

// The heuristics below are deliberately simple keyword/regex/word-count
// extraction, not real NLP. They exist so research still yields usable
// bullets when the model reply could not be parsed.

// noDataInsight is the single bullet reported when there are no results to
// derive anything from.
const noDataInsight = "No recent market data found for this product category."

// stopWords are excluded from trending topic extraction.
var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true,
	"they": true, "have": true, "been": true, "will": true,
}

// competitorPatterns match common competitor phrasings in titles and snippets.
var competitorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`vs\.?\s+(\w+)`),
	regexp.MustCompile(`compared to (\w+)`),
	regexp.MustCompile(`alternative to (\w+)`),
	regexp.MustCompile(`better than (\w+)`),
}

var positiveWords = []string{"great", "excellent", "amazing", "love", "best", "perfect", "outstanding"}
var negativeWords = []string{"terrible", "awful", "bad", "worst", "hate", "disappointing", "poor"}

// deriveInsights builds insight bullets from search results: trending
// topics, competitor mentions, overall sentiment, and a closing summary
// citing the result count. At most 5 bullets are returned.
func deriveInsights(results []core.WebSearchResult, query string) []string {
	if len(results) == 0 {
		return []string{noDataInsight}
	}

	var insights []string

	if topics := extractTrendingTopics(results); len(topics) > 0 {
		insights = append(insights, fmt.Sprintf("Trending topics: %s", strings.Join(topics, ", ")))
	}

	if competitors := extractCompetitorMentions(results); len(competitors) > 0 {
		insights = append(insights, fmt.Sprintf("Competitor activity: %s", strings.Join(competitors, ", ")))
	}

	insights = append(insights, fmt.Sprintf("Market sentiment: %s", analyzeSentiment(results)))

	insights = append(insights, fmt.Sprintf("Based on %d recent sources, market shows strong interest in %s", len(results), strings.ToLower(query)))

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

// extractTrendingTopics collects words longer than 4 characters from result
// titles, skipping stop words, keeping the first 3 unique hits.
func extractTrendingTopics(results []core.WebSearchResult) []string {
	seen := make(map[string]bool)
	var topics []string

	for _, result := range results {
		for _, word := range strings.Fields(strings.ToLower(result.Title)) {
			if len(word) <= 4 || stopWords[word] || seen[word] {
				continue
			}
			seen[word] = true
			topics = append(topics, word)
			if len(topics) == 3 {
				return topics
			}
		}
	}

	return topics
}

// extractCompetitorMentions applies the fixed competitor patterns against
// title+snippet text, keeping the first 3 unique matches.
func extractCompetitorMentions(results []core.WebSearchResult) []string {
	seen := make(map[string]bool)
	var competitors []string

	for _, result := range results {
		text := strings.ToLower(result.Title + " " + result.Snippet)
		for _, pattern := range competitorPatterns {
			for _, match := range pattern.FindAllStringSubmatch(text, -1) {
				competitor := strings.TrimSpace(match[1])
				if len(competitor) <= 2 || seen[competitor] {
					continue
				}
				seen[competitor] = true
				competitors = append(competitors, competitor)
				if len(competitors) == 3 {
					return competitors
				}
			}
		}
	}

	return competitors
}

// analyzeSentiment counts fixed positive and negative word occurrences
// across all results. One side must strictly exceed the other to move the
// needle off neutral.
func analyzeSentiment(results []core.WebSearchResult) string {
	positiveCount := 0
	negativeCount := 0

	for _, result := range results {
		text := strings.ToLower(result.Title + " " + result.Snippet)
		for _, word := range positiveWords {
			if strings.Contains(text, word) {
				positiveCount++
			}
		}
		for _, word := range negativeWords {
			if strings.Contains(text, word) {
				negativeCount++
			}
		}
	}

	switch {
	case positiveCount > negativeCount:
		return "positive"
	case negativeCount > positiveCount:
		return "negative"
	default:
		return "neutral"
	}
}
