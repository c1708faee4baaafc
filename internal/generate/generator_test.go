package generate

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"postcraft/internal/core"
	"postcraft/internal/llm"
)

// MockLLMClient implements LLMClient for testing
type MockLLMClient struct {
	textResponse  string
	textErr       error
	imageInsights core.ImageInsights
	imageErr      error
	prompts       []string
	imageCalls    int
}

func (m *MockLLMClient) GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.textErr != nil {
		return "", m.textErr
	}
	return m.textResponse, nil
}

func (m *MockLLMClient) AnalyzeProductImage(ctx context.Context, data []byte, mimeType string) (core.ImageInsights, error) {
	m.imageCalls++
	if m.imageErr != nil {
		return core.ImageInsights{}, m.imageErr
	}
	return m.imageInsights, nil
}

// MockResearcher implements Researcher for testing
type MockResearcher struct {
	data    *core.WebResearchData
	err     error
	queries []string
}

func (m *MockResearcher) SearchWeb(ctx context.Context, query string, maxResults int) (*core.WebResearchData, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

const validResponse = `{
  "posts": [
    { "platform": "twitter", "content": "Check out our new mug! ☕" },
    { "platform": "instagram", "content": "Morning coffee, upgraded." },
    { "platform": "linkedin", "content": "Introducing our latest product." }
  ]
}`

func testProduct() core.Product {
	return core.Product{
		Name:        "Trail Mug",
		Description: "Insulated steel mug for hikers",
		Price:       24.99,
		Category:    "Outdoor",
	}
}

func TestGenerateBasic(t *testing.T) {
	mock := &MockLLMClient{textResponse: validResponse}
	gen := NewGenerator(mock, nil, DefaultOptions())

	result, err := gen.Generate(context.Background(), testProduct(), core.GenerateOptions{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(result.Posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(result.Posts))
	}
	if result.Posts[0].Platform != core.PlatformTwitter {
		t.Errorf("first post platform = %s, expected twitter", result.Posts[0].Platform)
	}
	if result.ImageInsights != nil || result.ResearchInsights != nil {
		t.Error("expected no enrichments without image or research options")
	}
	if len(result.ScheduledPosts) != 0 {
		t.Error("expected no scheduled posts without SchedulePosts")
	}
}

func TestGeneratePromptContainsProduct(t *testing.T) {
	mock := &MockLLMClient{textResponse: validResponse}
	gen := NewGenerator(mock, nil, DefaultOptions())

	_, err := gen.Generate(context.Background(), testProduct(), core.GenerateOptions{Voice: core.VoicePlayful})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(mock.prompts) != 1 {
		t.Fatalf("expected 1 generation call, got %d", len(mock.prompts))
	}

	prompt := mock.prompts[0]
	for _, want := range []string{"Trail Mug", "Insulated steel mug for hikers", "$24.99", "Outdoor", "Brand voice: playful"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateWithImageAnalysis(t *testing.T) {
	mock := &MockLLMClient{
		textResponse: validResponse,
		imageInsights: core.ImageInsights{
			Summary: "A steel mug on a rock",
			Tags:    []string{"mug", "steel", "outdoor"},
			AltText: "Steel mug on a rock",
		},
	}
	gen := NewGenerator(mock, nil, DefaultOptions())

	opts := core.GenerateOptions{
		ImageBase64:   base64.StdEncoding.EncodeToString([]byte("fake image bytes")),
		ImageMimeType: "image/jpeg",
	}
	result, err := gen.Generate(context.Background(), testProduct(), opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if mock.imageCalls != 1 {
		t.Fatalf("expected 1 image analysis call, got %d", mock.imageCalls)
	}
	if result.ImageInsights == nil || result.ImageInsights.Summary != "A steel mug on a rock" {
		t.Errorf("image insights not propagated: %+v", result.ImageInsights)
	}
	if !strings.Contains(mock.prompts[0], "Observed Visuals: mug, steel, outdoor") {
		t.Error("prompt missing image tags")
	}
}

func TestGenerateImageFailureDegrades(t *testing.T) {
	mock := &MockLLMClient{
		textResponse: validResponse,
		imageErr:     errors.New("vision model unavailable"),
	}
	gen := NewGenerator(mock, nil, DefaultOptions())

	opts := core.GenerateOptions{
		ImageBase64:   base64.StdEncoding.EncodeToString([]byte("fake")),
		ImageMimeType: "image/png",
	}
	result, err := gen.Generate(context.Background(), testProduct(), opts)
	if err != nil {
		t.Fatalf("expected generation to continue past image failure, got %v", err)
	}
	if result.ImageInsights != nil {
		t.Error("expected nil image insights after analysis failure")
	}
	if len(result.Posts) != 3 {
		t.Errorf("expected 3 posts, got %d", len(result.Posts))
	}
}

func TestGenerateWithResearch(t *testing.T) {
	mock := &MockLLMClient{textResponse: validResponse}
	researcher := &MockResearcher{
		data: &core.WebResearchData{
			Query:    "insulated mugs",
			Insights: []string{"Market growing 15% YoY", "Buyers value durability"},
		},
	}
	gen := NewGenerator(mock, researcher, DefaultOptions())

	opts := core.GenerateOptions{ResearchQuery: "insulated mugs"}
	result, err := gen.Generate(context.Background(), testProduct(), opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(researcher.queries) != 1 || researcher.queries[0] != "insulated mugs" {
		t.Errorf("unexpected research queries: %v", researcher.queries)
	}
	if result.ResearchInsights == nil || len(result.ResearchInsights.Bullets) != 2 {
		t.Fatalf("research insights not propagated: %+v", result.ResearchInsights)
	}
	if !strings.Contains(mock.prompts[0], "Research Insights:") {
		t.Error("prompt missing research section")
	}
	if !strings.Contains(mock.prompts[0], "- Market growing 15% YoY") {
		t.Error("prompt missing research bullet")
	}
}

func TestGenerateDefaultResearchQuery(t *testing.T) {
	mock := &MockLLMClient{textResponse: validResponse}
	researcher := &MockResearcher{
		data: &core.WebResearchData{Insights: []string{"insight"}},
	}
	gen := NewGenerator(mock, researcher, DefaultOptions())

	// WebsiteURL triggers research; the query falls back to name + category.
	opts := core.GenerateOptions{WebsiteURL: "https://example.com/mug"}
	_, err := gen.Generate(context.Background(), testProduct(), opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(researcher.queries) != 1 || researcher.queries[0] != "Trail Mug Outdoor" {
		t.Errorf("expected derived query \"Trail Mug Outdoor\", got %v", researcher.queries)
	}
}

func TestGenerateResearchFailureDegrades(t *testing.T) {
	mock := &MockLLMClient{textResponse: validResponse}
	researcher := &MockResearcher{err: errors.New("search provider down")}
	gen := NewGenerator(mock, researcher, DefaultOptions())

	opts := core.GenerateOptions{ResearchQuery: "mugs"}
	result, err := gen.Generate(context.Background(), testProduct(), opts)
	if err != nil {
		t.Fatalf("expected generation to continue past research failure, got %v", err)
	}
	if result.ResearchInsights != nil {
		t.Error("expected nil research insights after research failure")
	}
}

func TestGenerateWithScheduling(t *testing.T) {
	mock := &MockLLMClient{textResponse: validResponse}
	gen := NewGenerator(mock, nil, DefaultOptions())

	opts := core.GenerateOptions{SchedulePosts: true, Timezone: "America/New_York"}
	result, err := gen.Generate(context.Background(), testProduct(), opts)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if len(result.ScheduledPosts) != 3 {
		t.Fatalf("expected 3 scheduled posts, got %d", len(result.ScheduledPosts))
	}
	for _, sp := range result.ScheduledPosts {
		if sp.Timezone != "America/New_York" {
			t.Errorf("scheduled post timezone = %q", sp.Timezone)
		}
		if sp.Status != core.StatusPending {
			t.Errorf("scheduled post status = %q", sp.Status)
		}
	}
}

func TestGenerateLLMError(t *testing.T) {
	mock := &MockLLMClient{textErr: errors.New("quota exceeded")}
	gen := NewGenerator(mock, nil, DefaultOptions())

	_, err := gen.Generate(context.Background(), testProduct(), core.GenerateOptions{})
	if err == nil {
		t.Fatal("expected error when the model call fails")
	}
}

func TestParsePostsResponse(t *testing.T) {
	posts, dropped, err := ParsePostsResponse(validResponse)
	if err != nil {
		t.Fatalf("ParsePostsResponse failed: %v", err)
	}
	if len(posts) != 3 || dropped != 0 {
		t.Errorf("got %d posts, %d dropped", len(posts), dropped)
	}
}

func TestParsePostsResponseWithCodeFences(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"
	posts, _, err := ParsePostsResponse(fenced)
	if err != nil {
		t.Fatalf("ParsePostsResponse failed on fenced input: %v", err)
	}
	if len(posts) != 3 {
		t.Errorf("expected 3 posts, got %d", len(posts))
	}
}

func TestParsePostsResponseFiltersInvalidEntries(t *testing.T) {
	raw := `{
	  "posts": [
	    { "platform": "twitter", "content": "keep me" },
	    { "platform": "facebook", "content": "wrong platform" },
	    { "platform": "instagram", "content": "" },
	    { "platform": "", "content": "no platform" },
	    { "platform": "linkedin", "content": "  keep me too  " }
	  ]
	}`

	posts, dropped, err := ParsePostsResponse(raw)
	if err != nil {
		t.Fatalf("ParsePostsResponse failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 valid posts, got %d", len(posts))
	}
	if dropped != 3 {
		t.Errorf("expected 3 dropped entries, got %d", dropped)
	}
	if posts[1].Content != "keep me too" {
		t.Errorf("content not trimmed: %q", posts[1].Content)
	}
}

func TestParsePostsResponseMalformed(t *testing.T) {
	cases := []string{
		"not json at all",
		`{"answer": 42}`,
		`[]`,
	}
	for _, raw := range cases {
		_, _, err := ParsePostsResponse(raw)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("ParsePostsResponse(%q) error = %v, expected ErrMalformedResponse", raw, err)
		}
	}
}

func TestParsePostsResponseAllFiltered(t *testing.T) {
	raw := `{"posts": [{ "platform": "facebook", "content": "nope" }]}`

	_, dropped, err := ParsePostsResponse(raw)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	if dropped != 1 {
		t.Errorf("expected 1 dropped entry, got %d", dropped)
	}
}

func TestParsePostsResponseEmptyList(t *testing.T) {
	_, _, err := ParsePostsResponse(`{"posts": []}`)
	if !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult for empty list, got %v", err)
	}
}
